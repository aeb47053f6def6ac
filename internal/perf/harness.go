package perf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/monitoring"
)

var (
	// ErrInvalidTrials is returned when the trials-per-point count is below 1.
	ErrInvalidTrials = errors.New("num_trials must be at least 1")
	// ErrNonFiniteSNR is returned for a NaN or infinite SNR value.
	ErrNonFiniteSNR = errors.New("snr must be finite")
	// ErrNoSNRValues is returned when a sweep is given no SNR values.
	ErrNoSNRValues = errors.New("no snr values to sweep")
)

// Harness runs Monte Carlo trials against one generator/synchronizer pair.
// It is not safe for concurrent use; see SweepParallel for running points in
// parallel.
type Harness struct {
	gen   Generator
	sync  Synchronizer
	noise *dsp.Injector
}

// NewHarness wires the collaborators for a sweep.
func NewHarness(gen Generator, sync Synchronizer, noise *dsp.Injector) *Harness {
	return &Harness{gen: gen, sync: sync, noise: noise}
}

// RunTrial runs one trial at noise standard deviation nstd: one frame is
// generated, perturbed and handed to the synchronizer. Nothing is returned
// beyond an error; the synchronizer's counters are the only outcome.
func (h *Harness) RunTrial(nstd float64) error {
	frame, err := h.gen.Execute()
	if err != nil {
		return fmt.Errorf("generate frame: %w", err)
	}
	if err := h.noise.Inject(frame, h.gen.FrameLen(), nstd); err != nil {
		return err
	}
	if err := h.sync.Process(frame); err != nil {
		return fmt.Errorf("process frame: %w", err)
	}
	return nil
}

// Evaluate resets the synchronizer, runs numTrials trials at snr and returns
// the synchronizer's statistics for that point alone.
func (h *Harness) Evaluate(snr float64, numTrials int) (FrameDataStats, error) {
	if err := checkPoint(snr, numTrials); err != nil {
		return FrameDataStats{}, err
	}
	nstd := dsp.NoiseStd(snr)

	h.sync.ResetState()
	h.sync.ResetStats()
	for i := 0; i < numTrials; i++ {
		if err := h.RunTrial(nstd); err != nil {
			return FrameDataStats{}, fmt.Errorf("snr %.1f dB trial %d: %w", snr, i, err)
		}
	}
	return h.sync.Stats(), nil
}

// Sweep evaluates every SNR value in the given order. Result index i always
// belongs to snrs[i]; values are neither sorted nor deduplicated. On any error
// no partial results are returned.
func (h *Harness) Sweep(ctx context.Context, snrs []float64, numTrials int) (*Results, error) {
	if err := checkSweep(snrs, numTrials); err != nil {
		return nil, err
	}

	res := NewResults(snrs, numTrials)
	start := time.Now()
	for i, snr := range snrs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats, err := h.Evaluate(snr, numTrials)
		if err != nil {
			return nil, err
		}
		res.Set(i, stats)
		monitoring.Logf("[%d/%d] snr=%.1f dB detects=%d valid=%d", i+1, len(snrs), snr, stats.Detects, stats.Valid)
	}
	monitoring.Logf("sweep complete: %d points x %d trials in %v", len(snrs), numTrials, time.Since(start).Round(time.Millisecond))
	return res, nil
}

func checkPoint(snr float64, numTrials int) error {
	if numTrials < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidTrials, numTrials)
	}
	if math.IsNaN(snr) || math.IsInf(snr, 0) {
		return fmt.Errorf("%w, got %v", ErrNonFiniteSNR, snr)
	}
	return nil
}

// checkSweep validates every point before any trial runs.
func checkSweep(snrs []float64, numTrials int) error {
	if len(snrs) == 0 {
		return ErrNoSNRValues
	}
	for i, snr := range snrs {
		if err := checkPoint(snr, numTrials); err != nil {
			return fmt.Errorf("snr[%d]: %w", i, err)
		}
	}
	return nil
}
