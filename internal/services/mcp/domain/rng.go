package domain

import (
	"fmt"

	"github.com/louisbranch/dicenotation/internal/dice"
	"github.com/louisbranch/dicenotation/internal/random"
)

// RngRequest represents optional RNG configuration for deterministic rolls.
type RngRequest struct {
	Seed *int64 `json:"seed,omitempty" jsonschema:"optional non-negative seed for deterministic rolls"`
}

// RngResult represents RNG details used for a roll.
type RngResult struct {
	SeedUsed   int64  `json:"seed_used" jsonschema:"seed value used by the server"`
	RngAlgo    string `json:"rng_algo" jsonschema:"rng algorithm identifier"`
	SeedSource string `json:"seed_source" jsonschema:"seed source (client or generated)"`
}

// resolveSource picks the seed for a roll and builds the source from it.
// Replaying the reported seed with the same notation repeats the roll.
func resolveSource(request *RngRequest, seedFunc func() (int64, error)) (dice.Source, *RngResult, error) {
	var requested *int64
	if request != nil {
		requested = request.Seed
	}
	seed, seedSource, err := random.ResolveSeed(requested, seedFunc)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve seed: %w", err)
	}
	return random.NewSource(seed), &RngResult{
		SeedUsed:   seed,
		RngAlgo:    random.RngAlgoMathRandV1,
		SeedSource: seedSource,
	}, nil
}
