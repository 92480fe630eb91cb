package random

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
)

// Randomizer is a uniform random source for shuffling and picking.
// It is not safe for concurrent use.
type Randomizer struct {
	rnd *rand.Rand
}

// New wraps src. Pass a seeded source to make shuffles reproducible.
func New(src rand.Source) *Randomizer {
	return &Randomizer{rnd: rand.New(src)}
}

func NewSeeded(seed uint64) *Randomizer {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewDefault seeds from the runtime's entropy-backed global generator.
func NewDefault() *Randomizer {
	return New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (that *Randomizer) IntN(n int) int {
	return that.rnd.IntN(n)
}

// Shuffle permutes items in place with Fisher-Yates and returns the same slice.
func Shuffle[T any](r *Randomizer, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}

	return items
}

// PickOne returns a uniformly chosen element of items.
func PickOne[T any](r *Randomizer, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, apperror.ErrEmptyInput
	}

	return items[r.IntN(len(items))], nil
}
