// Package report turns sweep results into failure-probability tables, CSV
// and charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/banshee-data/framesync.report/internal/perf"
)

var (
	// ErrZeroTrials is returned when results carry no trials to divide by.
	ErrZeroTrials = errors.New("number of trials is zero")
	// ErrPlotFormat is returned for a plot path whose extension is not
	// png, svg or pdf.
	ErrPlotFormat = errors.New("unsupported plot format")
)

// FailureRates returns the per-point probabilities of missed detection and
// of missing a valid payload, 1 - count/NumTrials, aligned with res.SNR.
func FailureRates(res *perf.Results) (detect, valid []float64, err error) {
	if res.NumTrials < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrZeroTrials, res.NumTrials)
	}
	n := float64(res.NumTrials)
	detect = make([]float64, res.Len())
	valid = make([]float64, res.Len())
	for i := range res.SNR {
		detect[i] = 1 - float64(res.Detects[i])/n
		valid[i] = 1 - float64(res.Valid[i])/n
	}
	return detect, valid, nil
}

// WriteTable prints one line per SNR point: SNR, detections, valid payloads.
func WriteTable(w io.Writer, res *perf.Results) error {
	for i, snr := range res.SNR {
		if _, err := fmt.Fprintf(w, "%8.1f %6d %6d\n", snr, res.Detects[i], res.Valid[i]); err != nil {
			return err
		}
	}
	return nil
}

// ascending returns the point indices ordered by SNR so curves are drawn
// left to right whatever order the sweep ran in.
func ascending(snrs []float64) []int {
	idx := make([]int, len(snrs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return snrs[idx[a]] < snrs[idx[b]] })
	return idx
}

// floor is the lowest probability shown on log axes: half of one trial.
func floor(numTrials int) float64 {
	return 0.5 / float64(numTrials)
}
