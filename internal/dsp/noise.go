// Package dsp holds the baseband waveform type and the additive white
// Gaussian noise model used by the detection-performance harness.
package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrLengthMismatch is returned when a noise vector and a waveform differ in
// length. It is a precondition violation and aborts a sweep.
var ErrLengthMismatch = errors.New("noise length does not match waveform length")

// Waveform is a block of complex baseband samples. Each sample is a
// (real, imaginary) float32 pair.
type Waveform []complex64

// NoiseStd converts an SNR in dB to the linear noise standard deviation for
// a unit-power signal: 10^(-snr/20).
func NoiseStd(snrDB float64) float64 {
	return math.Pow(10, -snrDB/20)
}

// Injector draws complex white Gaussian noise from an explicit random source.
// An Injector is not safe for concurrent use.
type Injector struct {
	norm distuv.Normal
}

// NewInjector returns an Injector drawing from src. A nil src falls back to
// the process-wide generator, which makes results unreproducible.
func NewInjector(src rand.Source) *Injector {
	return &Injector{norm: distuv.Normal{Mu: 0, Sigma: 1, Src: src}}
}

// NewSeededInjector returns an Injector backed by a PCG source.
func NewSeededInjector(seed uint64) *Injector {
	return NewInjector(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Noise returns n samples of complex noise with total power nstd^2, split
// evenly between the real and imaginary components.
func (in *Injector) Noise(n int, nstd float64) Waveform {
	out := make(Waveform, n)
	scale := nstd * math.Sqrt(0.5)
	for k := range out {
		re := in.norm.Rand() * scale
		im := in.norm.Rand() * scale
		out[k] = complex(float32(re), float32(im))
	}
	return out
}

// Inject perturbs w in place with n samples of noise. n is the frame length
// advertised by the generator and must equal len(w).
func (in *Injector) Inject(w Waveform, n int, nstd float64) error {
	if n != len(w) {
		return fmt.Errorf("%w: frame length %d, waveform %d", ErrLengthMismatch, n, len(w))
	}
	return Add(w, in.Noise(n, nstd))
}

// Add sums noise into dst sample by sample.
func Add(dst, noise Waveform) error {
	if len(dst) != len(noise) {
		return fmt.Errorf("%w: noise %d, waveform %d", ErrLengthMismatch, len(noise), len(dst))
	}
	for k := range dst {
		dst[k] += noise[k]
	}
	return nil
}
