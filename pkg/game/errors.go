package game

import (
	"errors"
	"fmt"
)

// Fatal rule-compile failures. These mean the database itself is
// invalid and the game must not be played.
var (
	ErrUndefinedCondition = errors.New("undefined condition opcode")
	ErrUndefinedAction    = errors.New("undefined action opcode")
	ErrMissingArgument    = errors.New("action requires more arguments than its rule carries")
)

// PlayerError is a recoverable, user-facing failure: an unknown word,
// a blocked direction, a full pack. It is caught at the turn boundary
// and rendered as output; play continues.
type PlayerError struct {
	msg string
}

func (e *PlayerError) Error() string { return e.msg }

func playerErrorf(format string, args ...any) error {
	return &PlayerError{msg: fmt.Sprintf(format, args...)}
}

// IsPlayerError distinguishes recoverable turn errors from fatal ones.
func IsPlayerError(err error) bool {
	var pe *PlayerError
	return errors.As(err, &pe)
}
