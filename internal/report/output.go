package report

import (
	"fmt"
	"io"

	"github.com/banshee-data/framesync.report/internal/fsutil"
	"github.com/banshee-data/framesync.report/internal/monitoring"
	"github.com/banshee-data/framesync.report/internal/perf"
)

// Outputs names the report files to produce. Empty paths are skipped.
type Outputs struct {
	CSV  string
	Plot string // png, svg or pdf by extension
	HTML string

	Title    string
	Subtitle string
}

// Validate checks the requested paths without touching the filesystem.
func (o Outputs) Validate() error {
	if o.Plot != "" {
		if _, err := PlotFormat(o.Plot); err != nil {
			return err
		}
	}
	return nil
}

// Write renders every requested output for res into fsys. Outputs and res are
// checked before any file is created. Each file is complete when Write
// returns; the first failure stops the rest.
func Write(fsys fsutil.FileSystem, out Outputs, res *perf.Results) error {
	if err := out.Validate(); err != nil {
		return err
	}
	if res.NumTrials < 1 {
		return fmt.Errorf("%w: got %d", ErrZeroTrials, res.NumTrials)
	}
	if out.CSV != "" {
		err := writeFile(fsys, out.CSV, func(w io.Writer) error {
			cw := NewCSVWriter(w)
			if err := cw.WriteHeader(); err != nil {
				return err
			}
			if err := cw.WriteResults(res); err != nil {
				return err
			}
			return cw.Flush()
		})
		if err != nil {
			return err
		}
	}
	if out.Plot != "" {
		err := writeFile(fsys, out.Plot, func(w io.Writer) error {
			return RenderPlotFile(w, out.Plot, res, out.Title)
		})
		if err != nil {
			return err
		}
	}
	if out.HTML != "" {
		err := writeFile(fsys, out.HTML, func(w io.Writer) error {
			return RenderHTML(w, res, out.Title, out.Subtitle)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(fsys fsutil.FileSystem, name string, render func(io.Writer) error) error {
	f, err := fsutil.CreateAll(fsys, name)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	monitoring.Logf("wrote %s", name)
	return nil
}
