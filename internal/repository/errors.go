package repository

import "errors"

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrUnexpectedStatus is returned by HTTP-backed adapters on a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrLockHeld is returned when another run holds the lock.
	ErrLockHeld = errors.New("lock is held by another run")
)
