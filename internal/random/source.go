package random

import (
	"math/rand"
	"sync"

	"github.com/louisbranch/dicenotation/internal/dice"
)

// RngAlgoMathRandV1 identifies the generator behind NewSource.
const RngAlgoMathRandV1 = "math_rand_v1"

// NewSource returns a deterministic source seeded with seed.
//
// The source is not safe for concurrent use; see NewLockedSource.
func NewSource(seed int64) dice.Source {
	rng := rand.New(rand.NewSource(seed))
	return func(min, max int) int {
		return between(rng, min, max)
	}
}

// NewLockedSource returns a seeded source safe for concurrent use, suitable
// for dice.RegisterSource.
func NewLockedSource(seed int64) dice.Source {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(seed))
	return func(min, max int) int {
		mu.Lock()
		defer mu.Unlock()
		return between(rng, min, max)
	}
}

// between rolls within [min, max]. An empty range yields min.
func between(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// Minimum always rolls the lower bound.
func Minimum(min, _ int) int {
	return min
}

// Maximum always rolls the upper bound.
func Maximum(_, max int) int {
	return max
}

// Fixed always rolls value, clamped to the requested bounds.
func Fixed(value int) dice.Source {
	return func(min, max int) int {
		return clamp(value, min, max)
	}
}

// Sequence replays values in order and wraps around once exhausted. Each
// value is clamped to the requested bounds. An empty sequence rolls the
// lower bound.
func Sequence(values ...int) dice.Source {
	var mu sync.Mutex
	next := 0
	return func(min, max int) int {
		if len(values) == 0 {
			return min
		}
		mu.Lock()
		value := values[next%len(values)]
		next++
		mu.Unlock()
		return clamp(value, min, max)
	}
}

func clamp(value, min, max int) int {
	if max < min {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
