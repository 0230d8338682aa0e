package brackets

import "math/rand/v2"

// RNG is the randomness a draw needs. *rand.Rand satisfies it.
type RNG interface {
	IntN(n int) int
}

// NewRNG returns a deterministic generator for the given seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Shuffle returns a Fisher-Yates shuffled copy of teams. The input is left untouched.
func Shuffle(teams []int, rng RNG) []int {
	shuffled := make([]int, len(teams))
	copy(shuffled, teams)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
