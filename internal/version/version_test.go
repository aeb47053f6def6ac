package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	prevV, prevSHA := Version, GitSHA
	defer func() { Version, GitSHA = prevV, prevSHA }()

	Version, GitSHA = "1.2.3", "abc123"
	s := String()
	if !strings.Contains(s, "1.2.3") || !strings.Contains(s, "abc123") {
		t.Errorf("String() = %q", s)
	}
}
