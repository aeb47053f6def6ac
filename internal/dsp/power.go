package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Split returns the real and imaginary components of w as float64 slices.
func Split(w Waveform) (re, im []float64) {
	re = make([]float64, len(w))
	im = make([]float64, len(w))
	for k, s := range w {
		re[k] = float64(real(s))
		im[k] = float64(imag(s))
	}
	return re, im
}

// Energy returns the sum of |w[k]|^2.
func Energy(w Waveform) float64 {
	re, im := Split(w)
	return floats.Dot(re, re) + floats.Dot(im, im)
}

// MeanPower returns the average per-sample power of w, or 0 for an empty
// waveform.
func MeanPower(w Waveform) float64 {
	if len(w) == 0 {
		return 0
	}
	return Energy(w) / float64(len(w))
}

// MeasuredSNR estimates the SNR in dB of noisy against the clean reference
// it was derived from. Identical inputs give +Inf.
func MeasuredSNR(clean, noisy Waveform) (float64, error) {
	if len(clean) != len(noisy) {
		return 0, ErrLengthMismatch
	}
	diff := make(Waveform, len(noisy))
	for k := range noisy {
		diff[k] = noisy[k] - clean[k]
	}
	pn := MeanPower(diff)
	if pn == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(MeanPower(clean)/pn), nil
}
