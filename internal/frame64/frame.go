// Package frame64 is a reference frame generator and frame synchronizer pair
// carrying an 8-byte header and a 64-byte payload. It gives the harness a
// real receiver to measure and is not part of the harness itself.
//
// Frame layout, one complex sample per chip:
//
//	| guard | preamble | header + crc | payload + crc | guard |
//	|  16   |    64    |   48 x SPS   |   272 x SPS   |  16   |
//
// The preamble is a BPSK m-sequence. Header and payload are Gray-coded QPSK,
// each symbol repeated SamplesPerSymbol times. Every non-guard sample has unit
// power.
package frame64

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"

	"github.com/banshee-data/framesync.report/internal/dsp"
)

const (
	HeaderLen        = 8
	PayloadLen       = 64
	GuardLen         = 16
	PreambleLen      = 64
	SamplesPerSymbol = 8
	crcLen           = 4
	bitsPerSymbol    = 2
	headerSymbols    = (HeaderLen + crcLen) * 8 / bitsPerSymbol
	payloadSymbols   = (PayloadLen + crcLen) * 8 / bitsPerSymbol
	bodySamples      = (headerSymbols + payloadSymbols) * SamplesPerSymbol
	preambleStart    = GuardLen
	bodyStart        = GuardLen + PreambleLen
	FrameLen         = 2*GuardLen + PreambleLen + bodySamples
	qpskAmplitude    = math.Sqrt2 / 2
	preambleLFSRSeed = 0x7f
	preambleLFSRTaps = 0x60 // x^7 + x^6 + 1
)

var (
	errHeaderSize  = errors.New("header must be 8 bytes")
	errPayloadSize = errors.New("payload must be 64 bytes")
)

var preamble = makePreamble()

// makePreamble returns the first PreambleLen chips of a length-127
// m-sequence mapped to +/-1.
func makePreamble() dsp.Waveform {
	p := make(dsp.Waveform, PreambleLen)
	state := uint8(preambleLFSRSeed)
	for i := range p {
		bit := state & 1
		state >>= 1
		if bit == 1 {
			state ^= preambleLFSRTaps
			p[i] = -1
		} else {
			p[i] = 1
		}
	}
	return p
}

// Preamble returns a copy of the synchronization sequence.
func Preamble() dsp.Waveform {
	return append(dsp.Waveform(nil), preamble...)
}

// Encode builds a frame waveform for the given header and payload.
func Encode(header, payload []byte) (dsp.Waveform, error) {
	if len(header) != HeaderLen {
		return nil, errHeaderSize
	}
	if len(payload) != PayloadLen {
		return nil, errPayloadSize
	}

	w := make(dsp.Waveform, FrameLen)
	copy(w[preambleStart:], preamble)
	n := bodyStart
	n = modulate(w, n, appendCRC(header))
	modulate(w, n, appendCRC(payload))
	return w, nil
}

func appendCRC(b []byte) []byte {
	out := make([]byte, len(b), len(b)+crcLen)
	copy(out, b)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(b))
}

// checkCRC splits a block into data and reports whether its trailing
// checksum matches.
func checkCRC(block []byte) ([]byte, bool) {
	data := block[:len(block)-crcLen]
	want := binary.BigEndian.Uint32(block[len(block)-crcLen:])
	return data, crc32.ChecksumIEEE(data) == want
}

// modulate writes data MSB first as QPSK symbols starting at w[n] and
// returns the index after the last sample written.
func modulate(w dsp.Waveform, n int, data []byte) int {
	for _, b := range data {
		for shift := 6; shift >= 0; shift -= 2 {
			sym := qpsk((b>>uint(shift+1))&1, (b>>uint(shift))&1)
			for j := 0; j < SamplesPerSymbol; j++ {
				w[n] = sym
				n++
			}
		}
	}
	return n
}

func qpsk(b0, b1 byte) complex64 {
	re, im := float32(qpskAmplitude), float32(qpskAmplitude)
	if b0 == 1 {
		re = -re
	}
	if b1 == 1 {
		im = -im
	}
	return complex(re, im)
}

// demodulate slices len(out) bytes of hard-decision QPSK from symbols.
func demodulate(symbols []complex128, out []byte) {
	for i := range out {
		var b byte
		for s := 0; s < 4; s++ {
			sym := symbols[i*4+s]
			b <<= 2
			if real(sym) < 0 {
				b |= 2
			}
			if imag(sym) < 0 {
				b |= 1
			}
		}
		out[i] = b
	}
}
