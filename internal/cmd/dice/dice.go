// Package dice parses dice command flags and rolls notation or runs a dice
// script.
package dice

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/louisbranch/dicenotation/internal/dice"
	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	"github.com/louisbranch/dicenotation/internal/random"
	"github.com/louisbranch/dicenotation/internal/script"
)

// maxTimes caps how many rolls one invocation prints.
const maxTimes = 1000

var errNothingToDo = errors.New("a notation argument or -script is required")

// Config holds dice command configuration.
type Config struct {
	Times      int    `env:"DICE_TIMES" envDefault:"1"`
	Minimum    int    `env:"DICE_MINIMUM" envDefault:"1"`
	Seed       int64  `env:"DICE_SEED" envDefault:"-1"`
	EmptyCount int    `env:"EMPTY_COUNT" envDefault:"0"`
	Detail     bool   `env:"DICE_DETAIL"`
	Script     string `env:"DICE_SCRIPT"`

	// Set from arguments only.
	Notation   string
	Add        int
	Reroll     int
	ScaleCount int
	ScaleFaces int
	ScaleSets  int
}

// ParseConfig parses environment and flags into a Config. The first
// positional argument is the notation to roll.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fs, args, nil)
}

func parseConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromEnviron(&cfg, environ); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Times, "times", cfg.Times, "How many times to roll")
	fs.IntVar(&cfg.Minimum, "min", cfg.Minimum, "Lowest total a set can produce")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for a replayable roll; negative generates one")
	fs.IntVar(&cfg.EmptyCount, "empty-count", cfg.EmptyCount, "Dice count used when notation omits it")
	fs.BoolVar(&cfg.Detail, "detail", cfg.Detail, "Print kept and dropped dice per set")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "Lua dice script to run instead of a notation")
	fs.IntVar(&cfg.Add, "add", 0, "Bonus added to the notation; negative subtracts")
	fs.IntVar(&cfg.Reroll, "reroll", 0, "Extra dice drawn; positive keeps the best, negative the worst")
	fs.IntVar(&cfg.ScaleCount, "scale-count", 0, "Dice added per set")
	fs.IntVar(&cfg.ScaleFaces, "scale-faces", 0, "Faces added per die")
	fs.IntVar(&cfg.ScaleSets, "scale-sets", 0, "Sets added")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Notation = strings.TrimSpace(fs.Arg(0))
	return cfg, nil
}

// Run rolls the configured notation or runs the configured script and
// writes the results to stdout.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDice, func(ctx context.Context) error {
		return run(ctx, cfg, os.Stdout)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.Times < 1 || cfg.Times > maxTimes {
		return fmt.Errorf("times must be between 1 and %d", maxTimes)
	}
	if cfg.Minimum < 0 {
		return fmt.Errorf("minimum must be non-negative")
	}

	var requested *int64
	if cfg.Seed >= 0 {
		requested = &cfg.Seed
	}
	seed, seedSource, err := random.ResolveSeed(requested, random.NewSeed)
	if err != nil {
		return fmt.Errorf("resolve seed: %w", err)
	}
	log.Printf("seed %d (%s, %s)", seed, seedSource, random.RngAlgoMathRandV1)
	source := random.NewSource(seed)
	options := []dice.ParseOption{dice.WithEmptyCount(cfg.EmptyCount)}

	if cfg.Script != "" {
		return runScript(cfg.Script, source, options, out)
	}
	if cfg.Notation == "" {
		return errNothingToDo
	}

	spec, err := dice.New(cfg.Notation, cfg.Minimum, options...)
	if err != nil {
		return err
	}
	spec = applyOperators(spec, cfg)
	notation, err := spec.Notation()
	if err != nil {
		return err
	}

	for range cfg.Times {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := spec.RollDetail(source, cfg.Minimum)
		if err != nil {
			return err
		}
		if err := writeRoll(out, notation, result, cfg.Detail); err != nil {
			return err
		}
	}
	return nil
}

// applyOperators applies the flag operators in a fixed order: bonus,
// reroll, then count, faces and sets scaling. Refused scales are logged.
func applyOperators(spec *dice.Spec, cfg Config) *dice.Spec {
	if cfg.Add != 0 {
		spec = spec.AddBonus(cfg.Add)
	}
	if cfg.Reroll != 0 {
		spec = spec.RerollBy(cfg.Reroll)
	}
	scales := []struct {
		name  string
		value int
		apply func(*dice.Spec, int) dice.Scaled
	}{
		{name: "count", value: cfg.ScaleCount, apply: (*dice.Spec).ScaleCount},
		{name: "faces", value: cfg.ScaleFaces, apply: (*dice.Spec).ScaleFaces},
		{name: "sets", value: cfg.ScaleSets, apply: (*dice.Spec).ScaleSets},
	}
	for _, scale := range scales {
		if scale.value == 0 {
			continue
		}
		result := scale.apply(spec, scale.value)
		if !result.Changed() {
			log.Printf("scale %s by %d refused for %s", scale.name, scale.value, spec)
		}
		spec = result.Spec()
	}
	return spec
}

func writeRoll(out io.Writer, notation string, result dice.RollResult, detail bool) error {
	totals := result.Totals()
	parts := make([]string, len(totals))
	for i, total := range totals {
		parts[i] = strconv.Itoa(total)
	}
	if _, err := fmt.Fprintf(out, "%s: %s\n", notation, strings.Join(parts, " ")); err != nil {
		return err
	}
	if !detail {
		return nil
	}
	for i, set := range result.Sets {
		line := fmt.Sprintf("  set %d: kept %v", i+1, set.Kept)
		if len(set.Dropped) > 0 {
			line += fmt.Sprintf(" dropped %v", set.Dropped)
		}
		if _, err := fmt.Fprintf(out, "%s = %d\n", line, set.Total); err != nil {
			return err
		}
	}
	return nil
}

func runScript(path string, source dice.Source, options []dice.ParseOption, out io.Writer) error {
	results, err := script.NewRunner(source, options...).RunFile(path)
	if err != nil {
		return fmt.Errorf("run script %s: %w", path, err)
	}
	for _, result := range results {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode script result: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
	}
	return nil
}
