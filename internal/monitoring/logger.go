// Package monitoring holds the diagnostic logger shared by the sweep
// packages. Libraries log through Logf; the command installs its backend.
package monitoring

import "log"

// Logf is the package-level progress logger. It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf and returns the previous logger so callers can
// restore it. Passing nil mutes logging.
func SetLogger(f func(format string, v ...interface{})) (previous func(format string, v ...interface{})) {
	previous = Logf
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return previous
	}
	Logf = f
	return previous
}
