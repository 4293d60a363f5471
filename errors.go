package clarity

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the API reports no record at a URI.
var ErrNotFound = errors.New("record not found")

// StatusError carries a non-success HTTP response from the API.
type StatusError struct {
	StatusCode int
	URI        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URI, e.StatusCode)
}

// TransientError represents a temporary transport failure that may succeed
// on retry (5xx responses, network errors).
type TransientError struct {
	err error
}

func (e *TransientError) Error() string { return e.err.Error() }

func (e *TransientError) Unwrap() error { return e.err }

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents a permanent failure that must not be retried
// (4xx responses, malformed documents).
type FatalError struct {
	err error
}

func (e *FatalError) Error() string { return e.err.Error() }

func (e *FatalError) Unwrap() error { return e.err }

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient returns true if the error should be retried.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsNotFound returns true if the error stems from a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
