package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/framesync.report/internal/perf"
)

// RenderHTML writes a self-contained interactive chart of both failure
// probabilities versus SNR.
func RenderHTML(w io.Writer, res *perf.Results, title, subtitle string) error {
	detect, valid, err := FailureRates(res)
	if err != nil {
		return err
	}

	order := ascending(res.SNR)
	series := func(rates []float64) []opts.LineData {
		data := make([]opts.LineData, 0, len(order))
		for _, j := range order {
			if rates[j] > 0 {
				data = append(data, opts.LineData{Value: []interface{}{res.SNR[j], rates[j]}})
			}
		}
		return data
	}

	xmin, xmax := snrBounds(res.SNR)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: xmin, Max: xmax, Name: "SNR [dB]", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Min: floor(res.NumTrials), Max: 1, Name: "Probability of Error", NameLocation: "middle", NameGap: 50}),
	)
	line.AddSeries(detectLabel, series(detect), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	line.AddSeries(validLabel, series(valid), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
