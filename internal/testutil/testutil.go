// Package testutil provides shared test helpers and substitutable stand-ins
// for the frame generator and frame synchronizer.
//
// The stubs implement perf.Generator and perf.Synchronizer without any DSP:
// the generator repeats a known frame and the synchronizer judges each
// waveform by how far it has drifted from that frame.
package testutil

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/perf"
)

// ErrStub is returned by stubs configured to fail.
var ErrStub = errors.New("stub failure")

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// KnownFrame returns an n-sample unit-power QPSK-like frame that cycles
// through the four constellation points.
func KnownFrame(n int) dsp.Waveform {
	const a = 0.70710678
	pts := [4]complex64{complex(a, a), complex(-a, a), complex(-a, -a), complex(a, -a)}
	w := make(dsp.Waveform, n)
	for k := range w {
		w[k] = pts[k%4]
	}
	return w
}

// FixedGenerator returns a copy of Frame on every call.
type FixedGenerator struct {
	Frame dsp.Waveform
	// Len overrides FrameLen when non-zero, to provoke length mismatches.
	Len int
	// FailAfter makes Execute fail once Calls reaches it (0 disables).
	FailAfter int
	Calls     int
}

// NewFixedGenerator returns a generator repeating KnownFrame(n).
func NewFixedGenerator(n int) *FixedGenerator {
	return &FixedGenerator{Frame: KnownFrame(n)}
}

// FrameLen implements perf.Generator.
func (g *FixedGenerator) FrameLen() int {
	if g.Len != 0 {
		return g.Len
	}
	return len(g.Frame)
}

// Execute implements perf.Generator.
func (g *FixedGenerator) Execute() (dsp.Waveform, error) {
	if g.FailAfter > 0 && g.Calls >= g.FailAfter {
		return nil, ErrStub
	}
	g.Calls++
	return append(dsp.Waveform(nil), g.Frame...), nil
}

// ThresholdSynchronizer detects a frame when the mean distortion power
// relative to Reference is below DetectBelow, and accepts the payload when
// additionally no sample deviates by more than ValidBelow in amplitude.
type ThresholdSynchronizer struct {
	Reference   dsp.Waveform
	DetectBelow float64
	ValidBelow  float64
	// FailAfter makes Process fail once Processed reaches it (0 disables).
	FailAfter int

	Processed   int
	StateResets int
	StatsResets int
	stats       perf.FrameDataStats
}

// NewThresholdSynchronizer returns a synchronizer judging against ref.
func NewThresholdSynchronizer(ref dsp.Waveform, detectBelow, validBelow float64) *ThresholdSynchronizer {
	return &ThresholdSynchronizer{Reference: ref, DetectBelow: detectBelow, ValidBelow: validBelow}
}

// ResetState implements perf.Synchronizer.
func (s *ThresholdSynchronizer) ResetState() { s.StateResets++ }

// ResetStats implements perf.Synchronizer.
func (s *ThresholdSynchronizer) ResetStats() {
	s.StatsResets++
	s.stats = perf.FrameDataStats{}
}

// Process implements perf.Synchronizer.
func (s *ThresholdSynchronizer) Process(w dsp.Waveform) error {
	if s.FailAfter > 0 && s.Processed >= s.FailAfter {
		return ErrStub
	}
	s.Processed++
	if len(w) != len(s.Reference) {
		return nil
	}

	var power, peak float64
	for k := range w {
		d := cmplx.Abs(complex128(w[k] - s.Reference[k]))
		power += d * d
		if d > peak {
			peak = d
		}
	}
	power /= float64(len(w))

	if power >= s.DetectBelow {
		return nil
	}
	s.stats.Detects++
	s.stats.Payloads++
	if peak < s.ValidBelow {
		s.stats.Valid++
		s.stats.Bytes += uint64(len(w))
	}
	return nil
}

// Stats implements perf.Synchronizer.
func (s *ThresholdSynchronizer) Stats() perf.FrameDataStats { return s.stats }

// Preload sets the counters directly, to check that a reset clears them.
func (s *ThresholdSynchronizer) Preload(st perf.FrameDataStats) { s.stats = st }
