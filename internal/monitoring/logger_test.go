package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	var lines []string
	prev := SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	defer SetLogger(prev)

	Logf("snr=%.1f dB detects=%d", -3.0, 12)
	if len(lines) != 1 || lines[0] != "snr=-3.0 dB detects=12" {
		t.Fatalf("unexpected log lines: %q", lines)
	}

	SetLogger(nil)
	Logf("muted")
	if len(lines) != 1 {
		t.Errorf("nil logger should mute output, got %q", lines)
	}
}

func TestSetLoggerReturnsPrevious(t *testing.T) {
	called := false
	first := func(string, ...interface{}) { called = true }

	orig := SetLogger(first)
	defer SetLogger(orig)

	got := SetLogger(nil)
	got("x")
	if !called {
		t.Error("SetLogger should return the logger it replaced")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
