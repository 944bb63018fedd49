package enhance

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// float53 maps the top 53 bits of u onto [0, 1).
func float53(u uint64) float64 { return float64(u>>11) * 0x1p-53 }

type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := cryptoRand.Read(b[:]); err != nil {
		return float53(rand.Uint64())
	}
	return float53(binary.LittleEndian.Uint64(b[:]))
}

// DefaultRNG is used for live rolls.
func DefaultRNG() RandomSource { return cryptoSource{} }

type pcgSource struct{ r *rand.Rand }

func (s pcgSource) Float64() float64 { return s.r.Float64() }

// NewSeededRNG returns a reproducible source for simulations and tests.
func NewSeededRNG(seed uint64) RandomSource {
	return pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}
