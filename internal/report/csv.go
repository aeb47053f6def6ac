package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/perf"
)

var csvHeader = []string{
	"snr", "nstd", "trials",
	"detects", "valid", "payloads", "bytes",
	"p_detect_fail", "p_valid_fail",
}

// CSVWriter wraps csv.Writer with methods for sweep output.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column names.
func (c *CSVWriter) WriteHeader() error {
	return c.w.Write(csvHeader)
}

// WriteResults writes one row per SNR point in sweep order.
func (c *CSVWriter) WriteResults(res *perf.Results) error {
	detect, valid, err := FailureRates(res)
	if err != nil {
		return err
	}
	trials := strconv.Itoa(res.NumTrials)
	for i, snr := range res.SNR {
		row := []string{
			formatFloat(snr),
			formatFloat(dsp.NoiseStd(snr)),
			trials,
			strconv.FormatUint(res.Detects[i], 10),
			strconv.FormatUint(res.Valid[i], 10),
			strconv.FormatUint(res.Payloads[i], 10),
			strconv.FormatUint(res.Bytes[i], 10),
			formatFloat(detect[i]),
			formatFloat(valid[i]),
		}
		if err := c.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered rows and reports any write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
