package engine

import "math/rand"

// RandomSource abstracts the randomness behind win draws and prize selection
// so tests can pin outcomes.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

type pseudoRand struct{}

func (pseudoRand) Float64() float64 { return rand.Float64() }
func (pseudoRand) Intn(n int) int   { return rand.Intn(n) }

func DefaultRNG() RandomSource { return pseudoRand{} }

// Draw resolves a single win/lose decision from a probability.
func Draw(p float64, rng RandomSource) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}
