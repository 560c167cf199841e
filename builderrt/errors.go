package builderrt

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	// ErrOutOfOrder reports a setter or Build invoked from the wrong state.
	ErrOutOfOrder = errors.New("builder operation out of order")
	// ErrMissingField reports a Build on a final state whose slots are not all set.
	ErrMissingField = errors.New("missing field")
	// ErrConsumed reports use of a builder after a transition or Build consumed it.
	ErrConsumed = errors.New("builder already consumed")
	// ErrUnknownField reports a setter name that the record does not expose.
	ErrUnknownField = errors.New("unknown field")
	// ErrTypeMismatch reports a value that cannot be stored in a field's slot.
	ErrTypeMismatch = errors.New("value type mismatch")
)

// OutOfOrderError is returned when Method is called in state Actual but is
// only legal in state Expected.
type OutOfOrderError struct {
	Record   string
	Method   string
	Expected State
	Actual   State
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("%s.%s called in %s, expected %s: %v",
		e.Record, e.Method, e.Actual, e.Expected, ErrOutOfOrder)
}

func (e *OutOfOrderError) Unwrap() error { return ErrOutOfOrder }

// MissingFieldError is returned by a strict Build when the slot at Position
// was never filled. Under correct use of the setter chain it cannot happen;
// it guards final states fabricated without traversing the chain (for
// example the zero value of a generated Ready type).
type MissingFieldError struct {
	Record   string
	Position int
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %v %q (#%d)", e.Record, ErrMissingField, e.Field, e.Position)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// UnknownFieldError is returned by runtime builders for setter names the
// record does not expose. Suggestion holds the closest valid name, if any.
type UnknownFieldError struct {
	Record     string
	Name       string
	Suggestion string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("%s: %v %q", e.Record, ErrUnknownField, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// TypeMismatchError is returned by runtime builders when a value is not
// assignable to the field's type.
type TypeMismatchError struct {
	Record string
	Field  string
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: field %q: %v: want %s, got %s", e.Record, e.Field, ErrTypeMismatch, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// Missing builds the error returned by generated strict finalizers.
func Missing(record string, position int, field string) error {
	return &MissingFieldError{Record: record, Position: position, Field: field}
}

// FirstUnset returns the position of the first false entry of filled, or -1.
func FirstUnset(filled []bool) int {
	for i, ok := range filled {
		if !ok {
			return i
		}
	}

	return -1
}
