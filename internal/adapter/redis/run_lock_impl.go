package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/popguide/ingest-service/internal/repository"
)

// releaseScript deletes the key only while it still holds the caller's token,
// so an expired lock re-acquired by another run is never dropped.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLockRepoImpl implements repository.RunLockRepository with SET NX and a TTL.
type RunLockRepoImpl struct {
	client *redis.Client
}

func NewRunLockRepo(client *redis.Client) *RunLockRepoImpl {
	return &RunLockRepoImpl{client: client}
}

// Acquire sets key to a fresh token if it is not already held.
func (r *RunLockRepoImpl) Acquire(ctx context.Context, key string, expiry time.Duration) (string, error) {
	token := uuid.NewString()
	err := r.client.SetArgs(ctx, key, token, redis.SetArgs{Mode: "NX", TTL: expiry}).Err()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrLockHeld
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Release removes key if it is still held with token.
func (r *RunLockRepoImpl) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, r.client, []string{key}, token).Err()
}
