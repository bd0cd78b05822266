package rng

import "math/rand"

// Source is the single randomness generator for one game instance. It is
// seeded once at game start and never re-seeded, so two runs with the same
// seed and the same action sequence are identical.
type Source struct {
	seed int64
	r    *rand.Rand
}

// New creates a source from a seed.
func New(seed int64) *Source {
	return &Source{
		seed: seed,
		r:    rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this source was created with, for replay records.
func (s *Source) Seed() int64 { return s.seed }

// Intn returns a uniform value in [0, n).
func (s *Source) Intn(n int) int { return s.r.Intn(n) }

// Shuffle applies a uniform Fisher-Yates permutation.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Pick returns a uniform index into a slice of the given length, or -1 when
// empty.
func (s *Source) Pick(length int) int {
	if length <= 0 {
		return -1
	}
	return s.r.Intn(length)
}
