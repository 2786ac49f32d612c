// Package rng provides the seeded pseudo-random stream used by combat
// resolution. A Source is a pure function of its seed string and the number
// of draws taken so far: two Sources built from the same seed always yield
// the same sequence, in any process.
package rng

// Source is a mulberry32 generator whose 32-bit state is derived from a
// string seed with an xmur3-style hash. It is not safe for concurrent use;
// each simulation owns its own Source.
type Source struct {
	state uint32
	calls int
}

// New returns a Source seeded from seed.
func New(seed string) *Source {
	return &Source{state: hashSeed(seed)}
}

// hashSeed folds the seed bytes into 32 bits and runs one finalisation step.
func hashSeed(seed string) uint32 {
	h := uint32(1779033703) ^ uint32(len(seed))
	for i := 0; i < len(seed); i++ {
		h = (h ^ uint32(seed[i])) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16
	return h
}

// Next returns the next float in [0, 1).
func (s *Source) Next() float64 {
	s.calls++
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	t ^= t >> 14
	return float64(t) / 4294967296.0
}

// Intn returns a uniform int in [0, n) using a single draw. n <= 0 returns 0
// without consuming the stream.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Calls reports how many draws have been taken from the stream.
func (s *Source) Calls() int { return s.calls }
