package redis

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// RunLock implements usecase.RunGuard using a Redis SETNX lease.
//
// Only one reconciliation run may hold the lease at a time. Each
// acquisition stores a fresh token so Release only deletes a lease
// this instance actually owns; a lease that outlives its TTL expires
// on its own, which unblocks future runs after a crash.
type RunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration

	mu    sync.Mutex
	token string
}

// NewRunLock creates a new RunLock with the given lease TTL.
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{
		client: client,
		key:    "reconciliation:run_lock",
		ttl:    ttl,
	}
}

// Acquire attempts to take the lease. It returns false without error
// when another holder already has it.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	token := ulid.Make().String()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil || !ok {
		return false, err
	}

	l.mu.Lock()
	l.token = token
	l.mu.Unlock()

	return true, nil
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release gives the lease back, but only if this instance still owns it.
func (l *RunLock) Release(ctx context.Context) error {
	l.mu.Lock()
	token := l.token
	l.token = ""
	l.mu.Unlock()

	if token == "" {
		return nil
	}

	return releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
}
