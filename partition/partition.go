// Package partition splits a sample across simulated clients.
package partition

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sartorproj/fedpower/errs"
)

// pcgStream is the PCG increment paired with the caller's seed.
const pcgStream = 0x9e3779b97f4a7c15

// Split shuffles a copy of x with a PCG generator seeded by seed and cuts it
// into nClients contiguous parts. Part sizes differ by at most one; the first
// len(x) % nClients parts get the extra value.
//
// The parts are disjoint and together hold every value of x exactly once.
// The same seed always produces the same split, and x is left untouched.
func Split(x []float64, nClients int, seed uint64) ([][]float64, error) {
	if err := checkClients(len(x), nClients); err != nil {
		return nil, err
	}

	shuffled := slices.Clone(x)
	rng := rand.New(rand.NewPCG(seed, pcgStream))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return chunks(shuffled, nClients), nil
}

// Chunks cuts x into k contiguous parts without shuffling. The parts share
// x's backing array. k outside [1, len(x)] is an error.
func Chunks(x []float64, k int) ([][]float64, error) {
	if err := checkClients(len(x), k); err != nil {
		return nil, err
	}
	return chunks(x, k), nil
}

func checkClients(n, k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: need at least one client, got %d", errs.ErrInvalidPartition, k)
	}
	if k > n {
		return fmt.Errorf("%w: %d clients for %d values", errs.ErrInvalidPartition, k, n)
	}
	return nil
}

func chunks(x []float64, k int) [][]float64 {
	base, extra := len(x)/k, len(x)%k
	parts := make([][]float64, k)
	start := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		parts[i] = x[start : start+size : start+size]
		start += size
	}
	return parts
}
