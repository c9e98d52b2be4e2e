package transition

import (
	"errors"
	"fmt"
)

// ErrIllegalMove matches every IllegalMoveError under errors.Is.
var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError reports a submission the rules reject. The state the
// move was applied to is left untouched.
type IllegalMoveError struct {
	Move    string
	Message string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Message)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

func illegal(move interface{ Describe() string }, format string, args ...any) error {
	return &IllegalMoveError{Move: move.Describe(), Message: fmt.Sprintf(format, args...)}
}
