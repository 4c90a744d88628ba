package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across aggregates. Expected failures are returned,
// never panicked, and no operation mutates its aggregate on an error path.
var (
	// ErrNotFound is returned by repositories when an aggregate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCurrencyMismatch guards all Money arithmetic.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrGoalNotActive rejects contributions to paused, completed, or
	// cancelled goals.
	ErrGoalNotActive = errors.New("goal is not active")

	// ErrInvalidTransition rejects state changes that do not apply to the
	// aggregate's current state.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ValidationError marks malformed input, rejected before any mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
