// Package random provides seeds and dice sources.
//
// Seeds come from crypto/rand so that generated rolls are hard to predict,
// while the sources themselves are deterministic for a given seed, which
// lets callers replay a roll by supplying the seed that produced it.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
)

// Seed source labels reported alongside a roll.
const (
	SeedSourceClient    = "client"
	SeedSourceGenerated = "generated"
)

// ErrSeedOutOfRange indicates a requested seed is negative.
var ErrSeedOutOfRange = errors.New("seed must be non-negative")

// NewSeed generates a random non-negative seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// ResolveSeed picks the seed for a roll. A requested seed is used as is;
// otherwise seedFunc generates one. The second result labels where the seed
// came from.
func ResolveSeed(requested *int64, seedFunc func() (int64, error)) (int64, string, error) {
	if requested != nil {
		if *requested < 0 {
			return 0, "", ErrSeedOutOfRange
		}
		return *requested, SeedSourceClient, nil
	}
	if seedFunc == nil {
		return 0, "", errors.New("seed generator is not configured")
	}
	seed, err := seedFunc()
	if err != nil {
		return 0, "", fmt.Errorf("generate seed: %w", err)
	}
	return seed, SeedSourceGenerated, nil
}
