package detector

import (
	"fmt"

	"dupsweep/internal/timeline"
)

// ErrNoActiveSequence is re-exported so callers need only this package.
var ErrNoActiveSequence = timeline.ErrNoActiveSequence

// InputError reports missing or malformed analysis input. It aborts the run
// before any stage executes.
type InputError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErrorf(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
