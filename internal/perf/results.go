package perf

import "fmt"

// Results holds one sweep's counters as parallel arrays aligned with SNR.
type Results struct {
	SNR       []float64 `json:"snr"`
	NumTrials int       `json:"num_trials"`
	Detects   []uint64  `json:"num_detects"`
	Valid     []uint64  `json:"num_valid"`
	Payloads  []uint64  `json:"num_payloads"`
	Bytes     []uint64  `json:"num_bytes"`
}

// NewResults allocates zeroed result arrays for snrs. The SNR slice is copied.
func NewResults(snrs []float64, numTrials int) *Results {
	n := len(snrs)
	return &Results{
		SNR:       append([]float64(nil), snrs...),
		NumTrials: numTrials,
		Detects:   make([]uint64, n),
		Valid:     make([]uint64, n),
		Payloads:  make([]uint64, n),
		Bytes:     make([]uint64, n),
	}
}

// Len returns the number of SNR points.
func (r *Results) Len() int { return len(r.SNR) }

// Set stores the counters for point i.
func (r *Results) Set(i int, s FrameDataStats) {
	r.Detects[i] = s.Detects
	r.Valid[i] = s.Valid
	r.Payloads[i] = s.Payloads
	r.Bytes[i] = s.Bytes
}

// At returns the counters stored for point i.
func (r *Results) At(i int) FrameDataStats {
	return FrameDataStats{
		Detects:  r.Detects[i],
		Valid:    r.Valid[i],
		Payloads: r.Payloads[i],
		Bytes:    r.Bytes[i],
	}
}

// Total sums the counters over all points.
func (r *Results) Total() FrameDataStats {
	var t FrameDataStats
	for i := range r.SNR {
		t.Add(r.At(i))
	}
	return t
}

// Check reports the first point whose counters are inconsistent:
// more detections than trials, or more valid payloads than detections.
// The harness never calls it; it exists to test synchronizer implementations.
func (r *Results) Check() error {
	for i, snr := range r.SNR {
		s := r.At(i)
		if s.Detects > uint64(r.NumTrials) {
			return fmt.Errorf("snr %.1f dB: %d detections exceed %d trials", snr, s.Detects, r.NumTrials)
		}
		if s.Valid > s.Detects {
			return fmt.Errorf("snr %.1f dB: %d valid payloads exceed %d detections", snr, s.Valid, s.Detects)
		}
	}
	return nil
}
