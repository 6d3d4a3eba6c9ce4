package repository

import (
	"context"
	"time"
)

// RunLockRepository serialises runs that share a key.
type RunLockRepository interface {
	// Acquire takes the lock for key with the given expiry. It returns ErrLockHeld
	// if another holder has it. The returned token must be passed to Release.
	Acquire(ctx context.Context, key string, expiry time.Duration) (token string, err error)
	// Release drops the lock if it is still held with token.
	Release(ctx context.Context, key, token string) error
}
