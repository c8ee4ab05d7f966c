// Package lock implements a Redis-backed distributed lock used to serialize
// transaction syncs per bank item across API instances.
package lock

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/isakbosman/manna/internal/application/adapter"
	domainErr "github.com/isakbosman/manna/internal/domain/error"
)

// releaseScript deletes the key only when the stored value still matches the
// holder's token, so an expired lock re-acquired by someone else is never
// released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// extendScript pushes the expiry forward only for the current holder.
var extendScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("pexpire", KEYS[1], ARGV[2])
else
    return 0
end
`)

const keyPrefix = "manna:lock:"

// RedisLocker acquires locks backed by a shared Redis instance.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a RedisLocker using the given client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire implements adapter.SyncLocker. It retries with jittered sleeps
// until the lock is taken or wait elapses.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl, wait time.Duration) (adapter.SyncLock, error) {
	token := uuid.New().String()
	redisKey := keyPrefix + key
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &redisLock{client: l.client, key: redisKey, token: token}, nil
		}
		if time.Now().After(deadline) {
			return nil, domainErr.ErrSyncInProgress
		}

		// Jittered backoff keeps competing workers from retrying in lockstep.
		sleep := 50*time.Millisecond + time.Duration(rand.Intn(100))*time.Millisecond
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

// Release implements adapter.SyncLock.
func (l *redisLock) Release(ctx context.Context) error {
	res, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Result()
	if err != nil {
		return err
	}
	if n, ok := res.(int64); ok && n == 0 {
		// Lock expired and may have been taken over. Nothing to release,
		// but worth a trace since it means the TTL was too short.
		slog.Warn("Lock already expired on release", "key", l.key)
	}
	return nil
}

// Extend implements adapter.SyncLock.
func (l *redisLock) Extend(ctx context.Context, ttl time.Duration) error {
	res, err := extendScript.Run(ctx, l.client, []string{l.key}, l.token, ttl.Milliseconds()).Result()
	if err != nil {
		return err
	}
	if n, ok := res.(int64); ok && n == 0 {
		return domainErr.ErrSyncInProgress
	}
	return nil
}
