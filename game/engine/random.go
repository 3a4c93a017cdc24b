package engine

import "math/rand/v2"

// Rand is the source of randomness for dice, shuffles and effect values.
// IntN returns a uniform integer in [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewRand returns the process-wide, unseeded random source
func NewRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a reproducible source for simulations and tests
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RollDie draws a uniform integer in [1, DiceFaces]
func RollDie(rng Rand) int {
	return rng.IntN(DiceFaces) + 1
}
