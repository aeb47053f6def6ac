package report

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/framesync.report/internal/perf"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 5 * vg.Inch

	detectLabel = "Detection"
	validLabel  = "Valid Payload"
)

// RenderPNG draws the failure-probability curves as a PNG image.
func RenderPNG(w io.Writer, res *perf.Results, title string) error {
	return renderPlot(w, res, title, "png")
}

// RenderPlotFile picks the image format from the file extension of name
// (png, svg or pdf) and draws the curves to w.
func RenderPlotFile(w io.Writer, name string, res *perf.Results, title string) error {
	format, err := PlotFormat(name)
	if err != nil {
		return err
	}
	return renderPlot(w, res, title, format)
}

// PlotFormat returns the image format implied by the extension of name.
func PlotFormat(name string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch format {
	case "png", "svg", "pdf":
		return format, nil
	}
	return "", fmt.Errorf("%w %q", ErrPlotFormat, filepath.Ext(name))
}

func renderPlot(w io.Writer, res *perf.Results, title, format string) error {
	p, err := newErrorPlot(res, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("failed to encode %s plot: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s plot: %w", format, err)
	}
	return nil
}

// newErrorPlot builds a log-scale plot of both failure probabilities versus
// SNR. Zero probabilities have no place on a log axis and are left out.
func newErrorPlot(res *perf.Results, title string) (*plot.Plot, error) {
	detect, valid, err := FailureRates(res)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "SNR [dB]"
	p.Y.Label.Text = "Probability of Error"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	order := ascending(res.SNR)
	for i, series := range []struct {
		label string
		rates []float64
	}{
		{detectLabel, detect},
		{validLabel, valid},
	} {
		pts := make(plotter.XYs, 0, len(order))
		for _, j := range order {
			if series.rates[j] > 0 {
				pts = append(pts, plotter.XY{X: res.SNR[j], Y: series.rates[j]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s line: %w", series.label, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		scatter.Color = plotutil.Color(i)
		scatter.Shape = draw.CircleGlyph{}
		p.Add(line, scatter)
		p.Legend.Add(series.label, line, scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	xmin, xmax := snrBounds(res.SNR)
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = floor(res.NumTrials), 1
	return p, nil
}

func snrBounds(snrs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range snrs {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	if len(snrs) == 0 {
		return 0, 1
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}
