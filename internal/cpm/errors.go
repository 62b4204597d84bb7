package cpm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput matches every ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a name does not resolve to a registered activity.
	ErrNotFound = errors.New("activity not found")

	// ErrCyclic is returned by Update when the network contains a cycle.
	ErrCyclic = errors.New("cannot compute timing on a cyclic network")

	// ErrNotImplemented is returned for the compressed edge notation.
	ErrNotImplemented = errors.New("compressed edges notation not yet implemented")

	// ErrNoLatestFinish is returned when the backward pass reaches an
	// activity whose latest finish cannot be determined.
	ErrNoLatestFinish = errors.New("no latest finish time found")
)

// ValidationError reports input rejected before or while building a network.
type ValidationError struct {
	// Op is the operation that failed
	Op string
	// Activity is the name of the activity involved (if any)
	Activity string
	// Err is the underlying error
	Err error
}

func (e *ValidationError) Error() string {
	if e.Activity != "" {
		return fmt.Sprintf("%s: activity '%s': %v", e.Op, e.Activity, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every validation failure match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(op, activity string, err error) error {
	return &ValidationError{Op: op, Activity: activity, Err: err}
}

func invalidf(op, format string, args ...interface{}) error {
	return &ValidationError{Op: op, Err: errors.Errorf(format, args...)}
}
