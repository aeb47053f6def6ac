// Package sweep parses the SNR axis of a detection-performance sweep from
// command-line and config strings.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxPoints caps the length of a generated range.
const maxPoints = 10000

// RangeSpec is an inclusive "min:max:step" range in dB.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// ParseRangeSpec parses a "min:max:step" string into a RangeSpec.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return RangeSpec{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	var vals [3]float64
	for i, name := range []string{"min", "max", "step"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return RangeSpec{}, fmt.Errorf("invalid %s value %q: %w", name, parts[i], err)
		}
		vals[i] = v
	}

	if vals[2] <= 0 {
		return RangeSpec{}, fmt.Errorf("step must be positive, got %f", vals[2])
	}
	if vals[0] > vals[1] {
		return RangeSpec{}, fmt.Errorf("min %g exceeds max %g", vals[0], vals[1])
	}
	return RangeSpec{Min: vals[0], Max: vals[1], Step: vals[2]}, nil
}

// Values expands the range, or returns nil when it is empty or too large.
func (r RangeSpec) Values() []float64 {
	return GenerateRange(r.Min, r.Max, r.Step)
}

// GenerateRange returns min, min+step, ... up to and including max, rounded
// to 1e-3 dB. Returns nil for an empty or oversized range.
func GenerateRange(min, max, step float64) []float64 {
	if step <= 0 || min > max {
		return nil
	}
	count := int(math.Floor((max-min)/step+1e-9)) + 1
	if count > maxPoints || count < 0 {
		return nil
	}

	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		v := math.Round((min+float64(i)*step)*1000) / 1000
		if v == 0 {
			v = 0 // drop negative zero
		}
		out = append(out, v)
	}
	return out
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// ParseCSVFloat64s parses a comma-separated list of float64 values, keeping
// their order and duplicates. Empty entries are skipped.
func ParseCSVFloat64s(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseSNRList parses either a "min:max:step" range or a comma-separated
// list. Lists keep the caller's order: "6,-9,0" sweeps 6 dB first.
func ParseSNRList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ":") {
		spec, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		vals := spec.Values()
		if len(vals) == 0 {
			return nil, fmt.Errorf("range %q yields no values (limit %d)", s, maxPoints)
		}
		return vals, nil
	}
	vals, err := ParseCSVFloat64s(s)
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("snr value %v is not finite", v)
		}
	}
	return vals, nil
}
