package frame64

import (
	"bytes"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/framesync.report/internal/dsp"
	"github.com/banshee-data/framesync.report/internal/perf"
)

var (
	_ perf.Generator    = (*Generator)(nil)
	_ perf.Synchronizer = (*Synchronizer)(nil)
)

func TestFrameGeometry(t *testing.T) {
	assert.Equal(t, 48, headerSymbols)
	assert.Equal(t, 272, payloadSymbols)
	assert.Equal(t, 2*16+64+(48+272)*8, FrameLen)

	g := NewSeededGenerator(1)
	assert.Equal(t, FrameLen, g.FrameLen())
	w, err := g.Execute()
	require.NoError(t, err)
	assert.Len(t, w, FrameLen)
}

func TestPreambleIsBPSK(t *testing.T) {
	p := Preamble()
	require.Len(t, p, PreambleLen)
	var pos, neg int
	for _, c := range p {
		switch c {
		case 1:
			pos++
		case -1:
			neg++
		default:
			t.Fatalf("preamble chip %v is not +/-1", c)
		}
	}
	assert.Positive(t, pos)
	assert.Positive(t, neg)
	assert.Equal(t, Preamble(), p, "preamble is deterministic")
}

func TestEncodeUnitPower(t *testing.T) {
	w, err := Encode(make([]byte, HeaderLen), make([]byte, PayloadLen))
	require.NoError(t, err)
	active := w[GuardLen : FrameLen-GuardLen]
	assert.InDelta(t, 1.0, dsp.MeanPower(active), 1e-6)
	assert.Zero(t, dsp.Energy(w[:GuardLen]))
	assert.Zero(t, dsp.Energy(w[FrameLen-GuardLen:]))
}

func TestEncodeRejectsBadSizes(t *testing.T) {
	_, err := Encode(make([]byte, 7), make([]byte, PayloadLen))
	assert.Error(t, err)
	_, err = Encode(make([]byte, HeaderLen), make([]byte, 65))
	assert.Error(t, err)
}

func TestModulateDemodulateRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xff, 0xa5, 0x3c, 0x81}
	w := make(dsp.Waveform, len(data)*4*SamplesPerSymbol)
	modulate(w, 0, data)

	symbols := make([]complex128, len(data)*4)
	for i := range symbols {
		symbols[i] = complex128(w[i*SamplesPerSymbol])
	}
	out := make([]byte, len(data))
	demodulate(symbols, out)
	assert.Equal(t, data, out)
}

func TestSynchronizerNoiseless(t *testing.T) {
	g := NewSeededGenerator(7)
	var frames []Frame
	s := NewSynchronizer(0, func(f Frame) { frames = append(frames, f) })
	assert.Equal(t, DefaultThreshold, s.Threshold())

	for i := 0; i < 20; i++ {
		w, err := g.Execute()
		require.NoError(t, err)
		require.NoError(t, s.Process(w))

		hdr, pay := g.Last()
		f := frames[len(frames)-1]
		assert.Equal(t, GuardLen, f.Offset)
		assert.InDelta(t, 1.0, f.Metric, 1e-6)
		assert.True(t, bytes.Equal(hdr, f.Header))
		assert.True(t, bytes.Equal(pay, f.Payload))
	}
	assert.Equal(t, perf.FrameDataStats{Detects: 20, Valid: 20, Payloads: 20, Bytes: 20 * PayloadLen}, s.Stats())

	off, metric, ok := s.Locked()
	assert.True(t, ok)
	assert.Equal(t, GuardLen, off)
	assert.InDelta(t, 1.0, metric, 1e-6)

	s.ResetState()
	_, _, ok = s.Locked()
	assert.False(t, ok)

	s.ResetStats()
	assert.Equal(t, perf.FrameDataStats{}, s.Stats())
}

func TestSynchronizerRecoversPhaseAndOffset(t *testing.T) {
	g := NewSeededGenerator(3)
	w, err := g.Execute()
	require.NoError(t, err)

	// delay by 5 samples and rotate by 2 rad; still within the search window
	rot := complex64(cmplx.Rect(1, 2))
	shifted := make(dsp.Waveform, len(w))
	for i := 5; i < len(w); i++ {
		shifted[i] = w[i-5] * rot
	}

	var got Frame
	s := NewSynchronizer(0, func(f Frame) { got = f })
	require.NoError(t, s.Process(shifted))
	assert.Equal(t, GuardLen+5, got.Offset)
	assert.InDelta(t, 2.0, got.Phase, 1e-4)
	assert.True(t, got.PayloadValid)
}

func TestSynchronizerIgnoresSilenceAndShortInput(t *testing.T) {
	s := NewSynchronizer(0, nil)
	require.NoError(t, s.Process(make(dsp.Waveform, FrameLen)))
	require.NoError(t, s.Process(make(dsp.Waveform, 10)))
	require.NoError(t, s.Process(nil))
	assert.Equal(t, perf.FrameDataStats{}, s.Stats())
}

func TestSynchronizerCorruptPayload(t *testing.T) {
	w, err := Encode(make([]byte, HeaderLen), make([]byte, PayloadLen))
	require.NoError(t, err)
	// flip one payload symbol (all of its repeated samples)
	start := bodyStart + (headerSymbols+10)*SamplesPerSymbol
	for j := 0; j < SamplesPerSymbol; j++ {
		w[start+j] = -w[start+j]
	}

	var got Frame
	s := NewSynchronizer(0, func(f Frame) { got = f })
	require.NoError(t, s.Process(w))
	assert.True(t, got.HeaderValid)
	assert.False(t, got.PayloadValid)
	assert.Equal(t, perf.FrameDataStats{Detects: 1, Valid: 0, Payloads: 1}, s.Stats())
}

func TestSynchronizerCorruptHeader(t *testing.T) {
	w, err := Encode(make([]byte, HeaderLen), make([]byte, PayloadLen))
	require.NoError(t, err)
	for j := 0; j < SamplesPerSymbol; j++ {
		w[bodyStart+j] = -w[bodyStart+j]
	}

	var got Frame
	s := NewSynchronizer(0, func(f Frame) { got = f })
	require.NoError(t, s.Process(w))
	assert.False(t, got.HeaderValid)
	assert.Nil(t, got.Payload)
	assert.Equal(t, perf.FrameDataStats{Detects: 1}, s.Stats())
}

func TestGeneratorReproducible(t *testing.T) {
	a, err := NewSeededGenerator(5).Execute()
	require.NoError(t, err)
	b, err := NewSeededGenerator(5).Execute()
	require.NoError(t, err)
	c, err := NewSeededGenerator(6).Execute()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
