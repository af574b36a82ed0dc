package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is matched by every *IndexError.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownField is returned by UpdateSetField for fields other than
	// setNumber, reps and weight.
	ErrUnknownField = errors.New("unknown set field")
	// ErrInvalidSetNumber is returned when a set number does not parse as an
	// integer >= 1.
	ErrInvalidSetNumber = errors.New("invalid set number")
)

// IndexError reports a workout, exercise or set position that does not exist
// in the schedule being edited.
type IndexError struct {
	Kind  string // "workout", "exercise" or "set"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }
