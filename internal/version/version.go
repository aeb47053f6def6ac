// Package version carries build metadata set via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for -version output and run headers.
func String() string {
	return fmt.Sprintf("framesync-perf %s (%s, built %s)", Version, GitSHA, BuildTime)
}
