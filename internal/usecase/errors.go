package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch wraps a failed extraction for one search term.
	ErrFetch = errors.New("listing fetch failed")
	// ErrPersistence wraps a failed catalog or price insert.
	ErrPersistence = errors.New("persistence failed")
	// ErrRunInProgress is returned when another run for the same category holds the lock.
	ErrRunInProgress = errors.New("a run for this category is already in progress")
)

// ConfigurationError reports a missing credential. It aborts a run before any work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}
