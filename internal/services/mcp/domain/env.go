package domain

import (
	"github.com/louisbranch/dicenotation/internal/dice"
	"github.com/louisbranch/dicenotation/internal/platform/telemetry/metrics"
	"github.com/louisbranch/dicenotation/internal/random"
)

// Env carries the dependencies shared by the dice tool handlers.
type Env struct {
	// Metrics records roll and tool counters. Nil disables recording.
	Metrics *metrics.Metrics
	// SeedFunc generates a seed when the caller does not supply one.
	// Nil uses random.NewSeed.
	SeedFunc func() (int64, error)
	// ParseOptions are applied to every notation the tools parse.
	ParseOptions []dice.ParseOption
}

func (e Env) seedFunc() func() (int64, error) {
	if e.SeedFunc != nil {
		return e.SeedFunc
	}
	return random.NewSeed
}

// parse parses notation with the env options and counts rejections.
func (e Env) parse(notation string, minimum int) (*dice.Spec, error) {
	spec, err := dice.New(notation, minimum, e.ParseOptions...)
	if err != nil {
		e.Metrics.RecordInvalidNotation()
		return nil, err
	}
	return spec, nil
}
