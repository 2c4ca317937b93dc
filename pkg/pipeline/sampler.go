package pipeline

import (
	"math/rand/v2"
)

// Sampler picks up to n seeds for one cycle
type Sampler func(seeds []string, n int) []string

// RandomSampler shuffles a copy of seeds and returns the first n
func RandomSampler(seeds []string, n int) []string {
	shuffled := append([]string(nil), seeds...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}

	return shuffled[:n]
}

// FixedSampler returns the first n seeds in order
func FixedSampler(seeds []string, n int) []string {
	if n > len(seeds) {
		n = len(seeds)
	}

	return append([]string(nil), seeds[:n]...)
}
