package world

import "math/rand/v2"

// Rand is the subset of *rand.Rand the world needs. Tests pass a seeded source.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand is safe for concurrent use.
func DefaultRand() Rand {
	return globalRand{}
}
