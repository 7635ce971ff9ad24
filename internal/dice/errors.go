package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidNotation indicates a notation string does not match the dice grammar.
var ErrInvalidNotation = errors.New("invalid dice notation")

// ErrInvalidRoll indicates a roll was attempted on an invalid spec.
var ErrInvalidRoll = errors.New("cannot roll invalid dice")

// ErrTooManyDice indicates a roll would draw more than MaxDice dice. It is
// always wrapped together with ErrInvalidRoll.
var ErrTooManyDice = errors.New("too many dice")

// NotationError reports the operation and notation that failed.
type NotationError struct {
	Op       string
	Notation string
	Err      error
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Notation, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *NotationError) Unwrap() error {
	return e.Err
}

func notationError(op, notation string, err error) error {
	return &NotationError{Op: op, Notation: notation, Err: err}
}
