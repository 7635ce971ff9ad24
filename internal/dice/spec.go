package dice

import (
	"strconv"
	"sync"
)

// Spec is a parsed dice specification.
//
// A Spec must not be copied after creation; it is always handled by pointer.
type Spec struct {
	count   int
	faces   int
	sets    int
	bonus   int
	reroll  int
	minimum int

	bonusPerDie  bool
	rerollPerDie bool
	valid        bool

	notation notationCell
}

// notationCell holds the rendered notation. Once frozen it never changes,
// even when setters later modify the spec.
type notationCell struct {
	mu     sync.Mutex
	value  string
	frozen bool
}

func (c *notationCell) load() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.frozen
}

// freeze stores value unless the cell is already frozen and returns the
// value that is now held.
func (c *notationCell) freeze(value string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.frozen {
		c.value = value
		c.frozen = true
	}
	return c.value
}

// NewFaces builds a single die with the given number of faces ("1d<faces>").
func NewFaces(faces, minimum int) (*Spec, error) {
	return New("1d"+strconv.Itoa(faces), minimum)
}

// New parses notation into a Spec whose set totals never fall below minimum.
//
// On failure the returned Spec is not nil but is invalid and refuses to roll.
func New(notation string, minimum int, opts ...ParseOption) (*Spec, error) {
	spec := &Spec{minimum: max(minimum, 0), sets: 1}
	spec.notation.freeze(notation)
	if err := spec.parse(notation, newParseOptions(opts)); err != nil {
		return spec, err
	}
	spec.valid = true
	return spec, nil
}

// Parse parses notation with a per-set minimum of 1.
func Parse(notation string, opts ...ParseOption) (*Spec, error) {
	return New(notation, 1, opts...)
}

// scaffold returns an empty valid spec used to build operator results.
func scaffold(minimum int) *Spec {
	return &Spec{minimum: minimum, sets: 1, valid: true}
}

// Count returns the number of dice kept per set.
func (s *Spec) Count() int { return s.count }

// Faces returns the number of faces per die.
func (s *Spec) Faces() int { return s.faces }

// Sets returns the number of independent sets rolled.
func (s *Spec) Sets() int { return s.sets }

// Bonus returns the signed bonus.
func (s *Spec) Bonus() int { return s.bonus }

// BonusPerDie reports whether the bonus is added to every die.
func (s *Spec) BonusPerDie() bool { return s.bonusPerDie }

// Reroll returns the signed reroll count.
func (s *Spec) Reroll() int { return s.reroll }

// Minimum returns the floor applied to every set total.
func (s *Spec) Minimum() int { return s.minimum }

// Valid reports whether the spec can be rolled.
func (s *Spec) Valid() bool { return s.valid }

// SetCount sets the dice count. Negative values are ignored.
func (s *Spec) SetCount(count int) {
	if count < 0 {
		return
	}
	s.count = count
}

// SetFaces sets the faces per die. Negative values are ignored.
func (s *Spec) SetFaces(faces int) {
	if faces < 0 {
		return
	}
	s.faces = faces
}

// SetSets sets the number of sets. Negative values are ignored.
func (s *Spec) SetSets(sets int) {
	if sets < 0 {
		return
	}
	s.sets = sets
}

// SetMinimum sets the per-set floor. Negative values are ignored.
func (s *Spec) SetMinimum(minimum int) {
	if minimum < 0 {
		return
	}
	s.minimum = minimum
}

// SetBonus sets the bonus.
func (s *Spec) SetBonus(bonus int) {
	s.bonus = bonus
}

// SetReroll sets the reroll count.
func (s *Spec) SetReroll(reroll int) {
	s.reroll = reroll
}
