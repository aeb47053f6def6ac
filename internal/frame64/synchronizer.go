package frame64

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"

	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/perf"
)

// DefaultThreshold is the normalized preamble correlation a candidate must
// reach to count as a detection. A clean preamble scores 1; noise alone
// scores about 1/PreambleLen.
const DefaultThreshold = 0.25

// Frame describes one detected frame.
type Frame struct {
	Offset       int     // preamble start within the processed waveform
	Metric       float64 // normalized correlation at Offset
	Phase        float64 // carrier phase estimate in radians
	Header       []byte
	Payload      []byte // nil when the header failed its check
	HeaderValid  bool
	PayloadValid bool
}

// Callback receives every detected frame, valid or not.
type Callback func(Frame)

type lockState struct {
	locked bool
	offset int
	metric float64
	phase  float64
}

// Synchronizer detects, aligns and decodes frame64 frames. Each Process call
// is searched for one frame whose preamble starts within the leading
// 2*GuardLen+1 samples. It implements perf.Synchronizer and is not safe for
// concurrent use.
type Synchronizer struct {
	threshold float64
	onFrame   Callback

	nfft        int
	preambleFFT []complex128 // conjugated spectrum of the zero-padded preamble

	state lockState
	stats perf.FrameDataStats
}

// NewSynchronizer returns a synchronizer with the given detection threshold
// (<= 0 selects DefaultThreshold). onFrame may be nil.
func NewSynchronizer(threshold float64, onFrame Callback) *Synchronizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Synchronizer{threshold: threshold, onFrame: onFrame}
}

// Threshold returns the detection threshold in use.
func (s *Synchronizer) Threshold() float64 { return s.threshold }

// ResetState drops the current lock.
func (s *Synchronizer) ResetState() { s.state = lockState{} }

// ResetStats zeroes the frame data counters.
func (s *Synchronizer) ResetStats() { s.stats = perf.FrameDataStats{} }

// Stats returns a snapshot of the frame data counters.
func (s *Synchronizer) Stats() perf.FrameDataStats { return s.stats }

// Locked reports the offset and metric of the last detection, if the
// synchronizer is locked.
func (s *Synchronizer) Locked() (offset int, metric float64, ok bool) {
	return s.state.offset, s.state.metric, s.state.locked
}

// Process searches w for a frame and updates the counters. A waveform too
// short to hold a frame is not an error; it simply yields no detection.
func (s *Synchronizer) Process(w dsp.Waveform) error {
	s.state = lockState{}

	offset, r, metric := s.search(w)
	if offset < 0 || metric < s.threshold {
		return nil
	}
	s.stats.Detects++
	s.state = lockState{locked: true, offset: offset, metric: metric, phase: cmplx.Phase(r)}

	f := s.decode(w, offset, r)
	f.Metric = metric
	if f.HeaderValid {
		s.stats.Payloads++
	}
	if f.PayloadValid {
		s.stats.Valid++
		s.stats.Bytes += PayloadLen
	}
	if s.onFrame != nil {
		s.onFrame(f)
	}
	return nil
}

// search returns the best preamble offset, the complex correlation there
// and its normalized metric. offset is -1 when w cannot hold a frame.
func (s *Synchronizer) search(w dsp.Waveform) (offset int, r complex128, metric float64) {
	maxOffset := len(w) - PreambleLen - bodySamples
	if maxOffset < 0 {
		return -1, 0, 0
	}
	seg := make([]complex128, maxOffset+PreambleLen)
	for i := range seg {
		seg[i] = complex128(w[i])
	}

	corr := s.correlate(seg)

	// sliding window energy via prefix sums
	prefix := make([]float64, len(seg)+1)
	for i, x := range seg {
		prefix[i+1] = prefix[i] + real(x)*real(x) + imag(x)*imag(x)
	}

	offset, metric = -1, -1
	for k := 0; k <= maxOffset; k++ {
		e := prefix[k+PreambleLen] - prefix[k]
		if e <= 0 {
			continue
		}
		m := sqAbs(corr[k]) / (PreambleLen * e)
		if m > metric {
			offset, metric, r = k, m, corr[k]
		}
	}
	if offset < 0 {
		return -1, 0, 0
	}
	return offset, r, metric
}

// correlate returns c[k] = sum_i seg[k+i] * conj(preamble[i]) using
// zero-padded FFTs.
func (s *Synchronizer) correlate(seg []complex128) []complex128 {
	n := dsputils.NextPowerOf2(len(seg) + PreambleLen - 1)
	if n != s.nfft {
		p := make([]complex128, PreambleLen)
		for i, c := range preamble {
			p[i] = complex128(c)
		}
		spec := fft.FFT(dsputils.ZeroPad(p, n))
		for i := range spec {
			spec[i] = cmplx.Conj(spec[i])
		}
		s.nfft, s.preambleFFT = n, spec
	}

	x := fft.FFT(dsputils.ZeroPad(seg, n))
	for i := range x {
		x[i] *= s.preambleFFT[i]
	}
	return fft.IFFT(x)
}

// decode derotates by the preamble phase, integrates each symbol over its
// repeated samples and checks both CRCs.
func (s *Synchronizer) decode(w dsp.Waveform, offset int, r complex128) Frame {
	rot := cmplx.Conj(r) / complex(cmplx.Abs(r), 0)
	symbols := make([]complex128, headerSymbols+payloadSymbols)
	base := offset + PreambleLen
	for i := range symbols {
		var acc complex128
		for j := 0; j < SamplesPerSymbol; j++ {
			acc += complex128(w[base+i*SamplesPerSymbol+j])
		}
		symbols[i] = acc * rot
	}

	f := Frame{Offset: offset, Phase: cmplx.Phase(r)}

	hdr := make([]byte, HeaderLen+crcLen)
	demodulate(symbols[:headerSymbols], hdr)
	f.Header, f.HeaderValid = checkCRC(hdr)
	if !f.HeaderValid {
		return f
	}

	pay := make([]byte, PayloadLen+crcLen)
	demodulate(symbols[headerSymbols:], pay)
	f.Payload, f.PayloadValid = checkCRC(pay)
	return f
}

func sqAbs(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
