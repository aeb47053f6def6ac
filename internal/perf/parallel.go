package perf

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/framesync.report/internal/monitoring"
)

// HarnessFactory builds an independent harness for SNR point i. Each call
// must return fresh generator, synchronizer and injector instances; seeding
// them from i keeps a parallel sweep reproducible regardless of scheduling.
type HarnessFactory func(i int) (*Harness, error)

// SweepParallel evaluates SNR points concurrently, at most workers at a time
// (workers <= 0 means GOMAXPROCS). Trials within a point stay sequential on
// that point's own synchronizer. Output alignment matches Sweep, and the first
// error cancels the remaining points.
func SweepParallel(ctx context.Context, snrs []float64, numTrials, workers int, factory HarnessFactory) (*Results, error) {
	if err := checkSweep(snrs, numTrials); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := NewResults(snrs, numTrials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, snr := range snrs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := factory(i)
			if err != nil {
				return err
			}
			stats, err := h.Evaluate(snr, numTrials)
			if err != nil {
				return err
			}
			// each goroutine owns slot i
			res.Set(i, stats)
			monitoring.Logf("snr=%.1f dB detects=%d valid=%d", snr, stats.Detects, stats.Valid)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
