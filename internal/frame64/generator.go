package frame64

import (
	"math/rand/v2"

	"github.com/banshee-data/framesync.report/internal/dsp"
)

// Generator produces frames with random header and payload bytes.
// It implements perf.Generator and is not safe for concurrent use.
type Generator struct {
	rng     *rand.Rand
	header  [HeaderLen]byte
	payload [PayloadLen]byte
}

// NewGenerator returns a generator drawing frame contents from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator returns a generator backed by a PCG source.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, ^seed))
}

// FrameLen returns the fixed number of samples per frame.
func (g *Generator) FrameLen() int { return FrameLen }

// Execute returns a new frame. The header and payload it carries stay
// readable through Last until the next call.
func (g *Generator) Execute() (dsp.Waveform, error) {
	g.fill(g.header[:])
	g.fill(g.payload[:])
	return Encode(g.header[:], g.payload[:])
}

// Last returns copies of the header and payload of the most recent frame.
func (g *Generator) Last() (header, payload []byte) {
	return append([]byte(nil), g.header[:]...), append([]byte(nil), g.payload[:]...)
}

func (g *Generator) fill(b []byte) {
	for i := 0; i < len(b); i += 8 {
		v := g.rng.Uint64()
		for j := i; j < i+8 && j < len(b); j++ {
			b[j] = byte(v)
			v >>= 8
		}
	}
}
