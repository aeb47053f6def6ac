package perf_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/perf"
	"github.com/banshee-data/framesync.report/internal/testutil"
)

func stubFactory(base uint64) perf.HarnessFactory {
	return func(i int) (*perf.Harness, error) {
		h, _, _ := newStubHarness(base + uint64(i))
		return h, nil
	}
}

func TestSweepParallelMatchesPerPointEvaluation(t *testing.T) {
	quiet(t)
	snrs := []float64{6, -9, 0, 20, -3}

	for _, workers := range []int{1, 2, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			res, err := perf.SweepParallel(context.Background(), snrs, 60, workers, stubFactory(11))
			require.NoError(t, err)
			require.NoError(t, res.Check())

			want := perf.NewResults(snrs, 60)
			for i, snr := range snrs {
				h, err := stubFactory(11)(i)
				require.NoError(t, err)
				s, err := h.Evaluate(snr, 60)
				require.NoError(t, err)
				want.Set(i, s)
			}
			if diff := cmp.Diff(want, res); diff != "" {
				t.Errorf("parallel results misaligned (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSweepParallelFactoryError(t *testing.T) {
	quiet(t)
	factory := func(i int) (*perf.Harness, error) {
		if i == 2 {
			return nil, testutil.ErrStub
		}
		return stubFactory(0)(i)
	}
	res, err := perf.SweepParallel(context.Background(), []float64{1, 2, 3, 4}, 5, 2, factory)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, testutil.ErrStub)
}

func TestSweepParallelCollaboratorError(t *testing.T) {
	quiet(t)
	factory := func(i int) (*perf.Harness, error) {
		gen := testutil.NewFixedGenerator(frameLen)
		if i == 1 {
			gen.FailAfter = 2
		}
		sync := testutil.NewThresholdSynchronizer(gen.Frame, 2, 1)
		return perf.NewHarness(gen, sync, dsp.NewSeededInjector(uint64(i))), nil
	}
	_, err := perf.SweepParallel(context.Background(), []float64{10, 0, -10}, 5, 3, factory)
	assert.ErrorIs(t, err, testutil.ErrStub)
}

func TestSweepParallelPreconditions(t *testing.T) {
	_, err := perf.SweepParallel(context.Background(), nil, 5, 1, stubFactory(0))
	assert.ErrorIs(t, err, perf.ErrNoSNRValues)

	_, err = perf.SweepParallel(context.Background(), []float64{0}, 0, 1, stubFactory(0))
	assert.ErrorIs(t, err, perf.ErrInvalidTrials)
}
