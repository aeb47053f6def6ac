// Package perf measures how often a frame synchronizer detects and correctly
// decodes frames as additive noise increases. A Harness drives a frame
// Generator and a Synchronizer through Monte Carlo trials, one SNR point at a
// time, and collects the synchronizer's own counters into index-aligned
// result arrays.
package perf

import "github.com/banshee-data/framesync.report/internal/dsp"

// Generator produces one new frame per call as a complex baseband waveform of
// fixed length.
type Generator interface {
	// FrameLen is the number of samples every Execute call returns.
	FrameLen() int

	// Execute returns a fresh frame with a random header and payload.
	Execute() (dsp.Waveform, error)
}

// Synchronizer is the receiver under test. It owns its statistics: the
// harness only resets and reads them.
type Synchronizer interface {
	// ResetState clears any detection/decoding state.
	ResetState()

	// ResetStats zeroes the frame data counters.
	ResetStats()

	// Process consumes one waveform and updates the counters.
	Process(w dsp.Waveform) error

	// Stats returns a snapshot of the counters.
	Stats() FrameDataStats
}

// FrameDataStats are the synchronizer's running counters.
type FrameDataStats struct {
	// Detects counts frames where a synchronization event fired.
	Detects uint64 `json:"num_detects"`
	// Valid counts frames whose payload passed the integrity check.
	Valid uint64 `json:"num_valid"`
	// Payloads counts payload occurrences observed.
	Payloads uint64 `json:"num_payloads"`
	// Bytes counts decoded payload bytes observed.
	Bytes uint64 `json:"num_bytes"`
}

// Add accumulates o into s.
func (s *FrameDataStats) Add(o FrameDataStats) {
	s.Detects += o.Detects
	s.Valid += o.Valid
	s.Payloads += o.Payloads
	s.Bytes += o.Bytes
}
