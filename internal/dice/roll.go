package dice

import (
	"fmt"
	"slices"
)

// MaxDice caps the dice a single roll may draw across all of its sets,
// rerolled dice included. Sets that draw no dice count as one.
const MaxDice = 1 << 20

// SetRoll captures the dice of a single set.
type SetRoll struct {
	// Kept holds the dice counted toward the total. A per-set bonus is
	// folded into the last kept die.
	Kept []int
	// Dropped holds the extra dice discarded by a reroll.
	Dropped []int
	Total   int
}

// RollResult captures the results of every set, in set order.
type RollResult struct {
	Sets []SetRoll
}

// Totals returns the total of each set.
func (r RollResult) Totals() []int {
	totals := make([]int, len(r.Sets))
	for i, set := range r.Sets {
		totals[i] = set.Total
	}
	return totals
}

// Roll rolls every set and returns one total per set.
//
// Each total is at least the spec minimum. When minimum or the spec minimum
// is greater than 1, every total is also raised to at least minimum.
func (s *Spec) Roll(src Source, minimum int) ([]int, error) {
	result, err := s.RollDetail(src, minimum)
	if err != nil {
		return nil, err
	}
	return result.Totals(), nil
}

// RollDefault rolls with the process-wide source.
func (s *Spec) RollDefault(minimum int) ([]int, error) {
	return s.Roll(DefaultSource(), minimum)
}

// RollDetail rolls like Roll and also reports the kept and dropped dice.
//
// # Evaluation
//
// For each set, count+|reroll| dice are drawn from src with bounds
// [1, faces]. A per-die bonus is added to every draw. With a positive
// reroll the dice are sorted highest first, with a negative reroll lowest
// first, and only the first count dice are kept. A per-set bonus is then
// added once to the last kept die.
//
// A nil src uses DefaultSource. A spec drawing more than MaxDice dice
// fails with ErrTooManyDice.
func (s *Spec) RollDetail(src Source, minimum int) (RollResult, error) {
	if !s.valid {
		return RollResult{}, notationError("roll", s.label(), ErrInvalidRoll)
	}
	if src == nil {
		src = DefaultSource()
	}

	draws, err := s.draws()
	if err != nil {
		return RollResult{}, err
	}
	sets := make([]SetRoll, 0, s.sets)
	for range s.sets {
		values := make([]int, draws)
		for i := range values {
			value := src(1, s.faces)
			if s.bonusPerDie {
				value += s.bonus
			}
			values[i] = value
		}

		kept := values
		var dropped []int
		if s.reroll != 0 {
			slices.Sort(values)
			if s.reroll > 0 {
				slices.Reverse(values)
			}
			kept = values[:s.count:s.count]
			dropped = values[s.count:]
		}

		total := 0
		for _, value := range kept {
			total += value
		}
		if !s.bonusPerDie && s.bonus != 0 {
			if len(kept) > 0 {
				kept[len(kept)-1] += s.bonus
			}
			total += s.bonus
		}

		sets = append(sets, SetRoll{
			Kept:    kept,
			Dropped: dropped,
			Total:   max(total, s.minimum),
		})
	}

	if minimum > 1 || s.minimum > 1 {
		for i := range sets {
			sets[i].Total = max(sets[i].Total, minimum)
		}
	}

	return RollResult{Sets: sets}, nil
}

// draws returns the dice drawn per set, rejecting specs whose total across
// all sets exceeds MaxDice.
func (s *Spec) draws() (int, error) {
	if s.count > MaxDice || s.reroll < -MaxDice || s.reroll > MaxDice || s.sets > MaxDice {
		return 0, s.tooManyDice()
	}
	draws := s.count + abs(s.reroll)
	if s.sets > MaxDice/max(draws, 1) {
		return 0, s.tooManyDice()
	}
	return draws, nil
}

// TotalDice returns the dice one roll draws across all sets, rerolled dice
// included. It fails with ErrTooManyDice when that exceeds MaxDice.
func (s *Spec) TotalDice() (int, error) {
	draws, err := s.draws()
	if err != nil {
		return 0, err
	}
	return s.sets * draws, nil
}

func (s *Spec) tooManyDice() error {
	return notationError("roll", s.label(), fmt.Errorf("%w: %w: limit is %d", ErrInvalidRoll, ErrTooManyDice, MaxDice))
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
