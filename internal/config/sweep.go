package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/framesync.report/internal/report"
	"github.com/banshee-data/framesync.report/internal/sweep"
)

// DefaultConfigPath is the path to the canonical sweep defaults file.
const DefaultConfigPath = "config/sweep.defaults.json"

// Built-in fallbacks used by the getters when a field is unset.
const (
	defaultSNR             = "-9:6:1"
	defaultNumTrials       = 1200
	defaultDetectThreshold = 0.25
	defaultWorkers         = 1
)

// SweepConfig describes one detection-performance sweep. Every field is
// optional; the Get* methods supply defaults, so partial files are safe.
type SweepConfig struct {
	// SNR axis: "min:max:step" in dB or a comma-separated list, swept in
	// the order given.
	SNR       *string `json:"snr,omitempty"`
	NumTrials *int    `json:"num_trials,omitempty"`

	// Seed for the noise and frame sources. Unset or 0 means the command
	// picks one and logs it.
	Seed *uint64 `json:"seed,omitempty"`

	// Reference synchronizer
	DetectThreshold *float64 `json:"detect_threshold,omitempty"`

	// Number of SNR points evaluated concurrently; 1 keeps the sweep
	// strictly sequential.
	Workers *int `json:"workers,omitempty"`

	// Outputs (empty disables)
	CSVPath  *string `json:"csv_path,omitempty"`
	PNGPath  *string `json:"png_path,omitempty"`
	HTMLPath *string `json:"html_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// DefaultSweepConfig returns a config with the built-in defaults filled in.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		SNR:             ptrString(defaultSNR),
		NumTrials:       ptrInt(defaultNumTrials),
		DetectThreshold: ptrFloat64(defaultDetectThreshold),
		Workers:         ptrInt(defaultWorkers),
	}
}

// LoadSweepConfig loads a SweepConfig from a JSON file. The file must have a
// .json extension and be at most 1MB. Omitted fields keep their defaults.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &SweepConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Intended for tests.
func MustLoadDefaultConfig() *SweepConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadSweepConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set.
func (c *SweepConfig) Validate() error {
	if c.SNR != nil {
		vals, err := sweep.ParseSNRList(*c.SNR)
		if err != nil {
			return fmt.Errorf("invalid snr %q: %w", *c.SNR, err)
		}
		if len(vals) == 0 {
			return fmt.Errorf("snr must name at least one value")
		}
	}
	if c.NumTrials != nil && *c.NumTrials < 1 {
		return fmt.Errorf("num_trials must be at least 1, got %d", *c.NumTrials)
	}
	if c.DetectThreshold != nil {
		if *c.DetectThreshold <= 0 || *c.DetectThreshold > 1 {
			return fmt.Errorf("detect_threshold must be in (0, 1], got %f", *c.DetectThreshold)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if p := c.GetPNGPath(); p != "" {
		if _, err := report.PlotFormat(p); err != nil {
			return fmt.Errorf("invalid png_path %q: %w", p, err)
		}
	}
	return nil
}

// GetSNRValues parses the snr field, falling back to the default sweep.
func (c *SweepConfig) GetSNRValues() ([]float64, error) {
	if c.SNR == nil || *c.SNR == "" {
		return sweep.ParseSNRList(defaultSNR)
	}
	return sweep.ParseSNRList(*c.SNR)
}

// GetNumTrials returns the num_trials value or the default.
func (c *SweepConfig) GetNumTrials() int {
	if c.NumTrials == nil {
		return defaultNumTrials
	}
	return *c.NumTrials
}

// GetSeed returns the seed value, or 0 when unset.
func (c *SweepConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetDetectThreshold returns the detect_threshold value or the default.
func (c *SweepConfig) GetDetectThreshold() float64 {
	if c.DetectThreshold == nil {
		return defaultDetectThreshold
	}
	return *c.DetectThreshold
}

// GetWorkers returns the workers value or the default.
func (c *SweepConfig) GetWorkers() int {
	if c.Workers == nil {
		return defaultWorkers
	}
	return *c.Workers
}

// GetCSVPath returns the csv_path value, or "" when unset.
func (c *SweepConfig) GetCSVPath() string { return deref(c.CSVPath) }

// GetPNGPath returns the png_path value, or "" when unset.
func (c *SweepConfig) GetPNGPath() string { return deref(c.PNGPath) }

// GetHTMLPath returns the html_path value, or "" when unset.
func (c *SweepConfig) GetHTMLPath() string { return deref(c.HTMLPath) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Merge overlays every field set in o onto c.
func (c *SweepConfig) Merge(o *SweepConfig) {
	if o == nil {
		return
	}
	if o.SNR != nil {
		c.SNR = o.SNR
	}
	if o.NumTrials != nil {
		c.NumTrials = o.NumTrials
	}
	if o.Seed != nil {
		c.Seed = o.Seed
	}
	if o.DetectThreshold != nil {
		c.DetectThreshold = o.DetectThreshold
	}
	if o.Workers != nil {
		c.Workers = o.Workers
	}
	if o.CSVPath != nil {
		c.CSVPath = o.CSVPath
	}
	if o.PNGPath != nil {
		c.PNGPath = o.PNGPath
	}
	if o.HTMLPath != nil {
		c.HTMLPath = o.HTMLPath
	}
}
