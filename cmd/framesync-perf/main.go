// Command framesync-perf measures how often the frame64 synchronizer detects
// a frame and recovers a valid payload as the channel SNR falls.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/banshee-data/framesync.report/internal/config"
	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/frame64"
	"github.com/banshee-data/framesync.report/internal/fsutil"
	"github.com/banshee-data/framesync.report/internal/monitoring"
	"github.com/banshee-data/framesync.report/internal/perf"
	"github.com/banshee-data/framesync.report/internal/report"
	"github.com/banshee-data/framesync.report/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Sweep config JSON file (flags override its values)")

	// Sweep
	snrFlag := flag.String("snr", "", "SNR values in dB: comma-separated list or range min:max:step (default -9:6:1)")
	trials := flag.Int("trials", 0, "Trials per SNR point (default 1200)")
	seed := flag.Uint64("seed", 0, "Seed for frame and noise sources (0 picks one)")
	threshold := flag.Float64("threshold", 0, "Preamble detection threshold in (0, 1] (default 0.25)")
	workers := flag.Int("workers", -1, "SNR points evaluated concurrently (0 = GOMAXPROCS, default 1)")

	// Outputs
	csvPath := flag.String("csv", "", "Write per-point counters and failure rates to this CSV file")
	plotPath := flag.String("png", "", "Write the error-probability chart to this file (.png, .svg or .pdf)")
	htmlPath := flag.String("html", "", "Write an interactive HTML chart to this file")
	outDir := flag.String("outdir", "", "Write CSV, PNG and HTML named after the run ID into this directory")

	quiet := flag.Bool("quiet", false, "Suppress progress logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.DefaultSweepConfig()
	if *configPath != "" {
		fileCfg, err := config.LoadSweepConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		cfg.Merge(fileCfg)
	}

	overrides := &config.SweepConfig{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "snr":
			overrides.SNR = snrFlag
		case "trials":
			overrides.NumTrials = trials
		case "seed":
			overrides.Seed = seed
		case "threshold":
			overrides.DetectThreshold = threshold
		case "workers":
			overrides.Workers = workers
		case "csv":
			overrides.CSVPath = csvPath
		case "png":
			overrides.PNGPath = plotPath
		case "html":
			overrides.HTMLPath = htmlPath
		}
	})
	cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fatalf, flush, err := setupLogging(*quiet)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *outDir, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		stop()
		fatalf("Sweep failed: %v", err)
	}
}

// setupLogging installs the progress logger. The returned fatalf flushes
// buffered log output before exiting; flush is for the normal exit path.
func setupLogging(quiet bool) (fatalf func(string, ...interface{}), flush func(), err error) {
	if quiet {
		monitoring.SetLogger(nil)
		return log.Fatalf, func() {}, nil
	}
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	sugar := logger.Sugar()
	monitoring.SetLogger(sugar.Infof)
	flush = func() {
		// stderr on a terminal reports EINVAL from fsync
		if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
			log.Printf("failed to flush log: %v", err)
		}
	}
	// zap syncs before exiting on Fatal entries
	return sugar.Fatalf, flush, nil
}

func newLogger() (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.DisableStacktrace = true
	return zc.Build()
}

// run executes one sweep described by cfg, prints the result table to
// stdout and writes the requested report files.
func run(ctx context.Context, cfg *config.SweepConfig, outDir string, fsys fsutil.FileSystem, stdout io.Writer) error {
	snrs, err := cfg.GetSNRValues()
	if err != nil {
		return err
	}
	numTrials := cfg.GetNumTrials()
	threshold := cfg.GetDetectThreshold()
	seed := cfg.GetSeed()
	if seed == 0 {
		seed = rand.Uint64()
	}

	runID := uuid.New()
	out := outputs(cfg, outDir, runID)
	if err := out.Validate(); err != nil {
		return err
	}
	monitoring.Logf("run %s: %d SNR points x %d trials, seed %d, threshold %.3f, %s",
		runID, len(snrs), numTrials, seed, threshold, version.String())

	var res *perf.Results
	if w := cfg.GetWorkers(); w == 1 {
		h := newHarness(seed, threshold)
		res, err = h.Sweep(ctx, snrs, numTrials)
	} else {
		res, err = perf.SweepParallel(ctx, snrs, numTrials, w, func(i int) (*perf.Harness, error) {
			return newHarness(seed+2*uint64(i), threshold), nil
		})
	}
	if err != nil {
		return err
	}

	if err := report.WriteTable(stdout, res); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	out.Title = fmt.Sprintf("frame64 synchronizer, %d trials per point", numTrials)
	out.Subtitle = fmt.Sprintf("run %s, seed %d, threshold %.3f", runID, seed, threshold)
	return report.Write(fsys, out, res)
}

// newHarness wires a reference generator and synchronizer to an injector.
// The generator and injector draw from distinct streams of the same seed.
func newHarness(seed uint64, threshold float64) *perf.Harness {
	return perf.NewHarness(
		frame64.NewSeededGenerator(seed),
		frame64.NewSynchronizer(threshold, nil),
		dsp.NewSeededInjector(seed+1),
	)
}

// outputs resolves report paths. Explicit paths win; with outDir set, any
// missing path gets a name derived from the run ID.
func outputs(cfg *config.SweepConfig, outDir string, runID uuid.UUID) report.Outputs {
	out := report.Outputs{
		CSV:  cfg.GetCSVPath(),
		Plot: cfg.GetPNGPath(),
		HTML: cfg.GetHTMLPath(),
	}
	if outDir == "" {
		return out
	}
	base := filepath.Join(outDir, "framesync-"+runID.String()[:8])
	if out.CSV == "" {
		out.CSV = base + ".csv"
	}
	if out.Plot == "" {
		out.Plot = base + ".png"
	}
	if out.HTML == "" {
		out.HTML = base + ".html"
	}
	return out
}
