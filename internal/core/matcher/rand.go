package matcher

import "math/rand/v2"

// Source is the randomness a Matcher draws from
// *rand.Rand from math/rand/v2 satisfies it
type Source interface {
	IntN(n int) int
}

// globalSource uses the runtime seeded generator, safe for concurrent use
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewSource returns a deterministic source for seed
// the returned generator is not safe for concurrent use
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// shuffle is an in place Fisher-Yates, every permutation equally likely
func shuffle(src Source, a []int) {
	for i := len(a) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}
