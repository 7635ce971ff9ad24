package dice

import (
	"strconv"
	"strings"
)

// Notation returns the canonical notation for the spec.
//
// The first result is cached for the lifetime of the spec: later setter calls
// do not change what Notation reports. Specs built by New keep the string
// they were parsed from.
func (s *Spec) Notation() (string, error) {
	value, ok := s.notation.load()
	if !ok {
		value = s.notation.freeze(s.render())
	}
	if !s.valid || !verifyNotation(value) {
		return value, notationError("format", value, ErrInvalidNotation)
	}
	return value, nil
}

// String returns the notation, or the raw text of an invalid spec.
func (s *Spec) String() string {
	notation, _ := s.Notation()
	return notation
}

// render builds notation from the current fields, e.g. "(3d4+2^+1)x3".
func (s *Spec) render() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.count))
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(s.faces))

	switch {
	case s.bonus > 0:
		b.WriteByte('+')
		if s.bonusPerDie {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(s.bonus))
	case s.bonus < 0:
		if s.bonusPerDie {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(s.bonus))
	}

	switch {
	case s.reroll > 0:
		b.WriteString("^+")
		b.WriteString(strconv.Itoa(s.reroll))
	case s.reroll < 0:
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(s.reroll))
	}

	if s.sets > 1 {
		return "(" + b.String() + ")x" + strconv.Itoa(s.sets)
	}
	return b.String()
}

// label names the spec in errors without freezing the notation cell.
func (s *Spec) label() string {
	if value, ok := s.notation.load(); ok {
		return value
	}
	return s.render()
}
