package dice

import (
	"fmt"
	"regexp"
	"strconv"
)

// notationPattern captures count, faces, bonus, reroll and sets.
var notationPattern = regexp.MustCompile(`^\(?(\d*)d(\d+)([+-]{1,2}\d+)?(\^[+-]{1,2}\d+)?\)?(x\d+)?$`)

const (
	groupCount = iota + 1
	groupFaces
	groupBonus
	groupReroll
	groupSets
)

// ParseOption customizes notation parsing.
type ParseOption func(*parseOptions)

type parseOptions struct {
	emptyCount int
}

func newParseOptions(opts []ParseOption) parseOptions {
	options := parseOptions{emptyCount: 0}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// WithEmptyCount sets the dice count used when the notation omits it ("d6").
//
// The default is 0, so "d6" rolls no dice. WithEmptyCount(1) gives the usual
// tabletop reading of one die. Negative values are ignored.
//
// A parsed spec keeps its input as its notation, so "d6" parsed with
// WithEmptyCount(1) still renders as "d6". Parsing that notation again only
// yields the same spec under the same option.
func WithEmptyCount(count int) ParseOption {
	return func(o *parseOptions) {
		if count >= 0 {
			o.emptyCount = count
		}
	}
}

// parse populates the spec from notation.
func (s *Spec) parse(notation string, options parseOptions) error {
	matches := notationPattern.FindStringSubmatch(notation)
	if matches == nil {
		return notationError("parse", notation, ErrInvalidNotation)
	}

	count := options.emptyCount
	if raw := matches[groupCount]; raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return notationError("parse", notation, fmt.Errorf("%w: count: %v", ErrInvalidNotation, err))
		}
		count = value
	}

	faces, err := strconv.Atoi(matches[groupFaces])
	if err != nil {
		return notationError("parse", notation, fmt.Errorf("%w: faces: %v", ErrInvalidNotation, err))
	}

	var bonus int
	var bonusPerDie bool
	if raw := matches[groupBonus]; raw != "" {
		bonus, bonusPerDie, err = parseSigned(raw)
		if err != nil {
			return notationError("parse", notation, fmt.Errorf("%w: bonus: %v", ErrInvalidNotation, err))
		}
	}

	var reroll int
	var rerollPerDie bool
	if raw := matches[groupReroll]; raw != "" {
		reroll, rerollPerDie, err = parseSigned(raw[1:])
		if err != nil {
			return notationError("parse", notation, fmt.Errorf("%w: reroll: %v", ErrInvalidNotation, err))
		}
	}

	sets := 1
	if raw := matches[groupSets]; raw != "" {
		sets, err = strconv.Atoi(raw[1:])
		if err != nil {
			return notationError("parse", notation, fmt.Errorf("%w: sets: %v", ErrInvalidNotation, err))
		}
		if sets < 1 {
			return notationError("parse", notation, fmt.Errorf("%w: sets must be at least 1", ErrInvalidNotation))
		}
	}

	s.count = count
	s.faces = faces
	s.bonus = bonus
	s.bonusPerDie = bonusPerDie
	s.reroll = reroll
	s.rerollPerDie = rerollPerDie
	s.sets = sets
	return nil
}

// parseSigned converts a one- or two-sign token ("+2", "--1") to an integer.
// A doubled sign marks the value as per-die; only the second sign is kept.
func parseSigned(token string) (int, bool, error) {
	perDie := len(token) > 1 && (token[1] == '+' || token[1] == '-')
	if perDie {
		token = token[1:]
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, false, err
	}
	return value, perDie, nil
}

// verifyNotation reports whether notation matches the grammar without
// populating a spec.
func verifyNotation(notation string) bool {
	return notationPattern.MatchString(notation)
}
