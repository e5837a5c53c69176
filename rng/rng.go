// Package rng supplies the uniform randomness source shared by the combat,
// loot and gathering resolvers. The source is an interface so tests can
// substitute a deterministic sequence.
package rng

import "math/rand"

// Source yields uniform random values in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a Source seeded with the given value. The same seed always
// produces the same sequence.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// IntBetween draws a uniform integer in the inclusive range [min, max].
func IntBetween(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + int(src.Float64()*float64(max-min+1))
}

// Chance performs a single Bernoulli trial with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
