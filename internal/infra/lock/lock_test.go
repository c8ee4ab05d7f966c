package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	domainErr "github.com/isakbosman/manna/internal/domain/error"
)

func setupLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLocker(client), mr
}

func TestRedisLocker_Acquire(t *testing.T) {
	t.Run("should acquire a free lock", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		lock, err := locker.Acquire(ctx, "item-1", 30*time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !mr.Exists("manna:lock:item-1") {
			t.Error("expected lock key to exist in redis")
		}

		if err := lock.Release(ctx); err != nil {
			t.Fatalf("expected no error on release, got %v", err)
		}
		if mr.Exists("manna:lock:item-1") {
			t.Error("expected lock key to be gone after release")
		}
	})

	t.Run("should fail when lock is held and wait expires", func(t *testing.T) {
		locker, _ := setupLocker(t)
		ctx := context.Background()

		_, err := locker.Acquire(ctx, "item-1", 30*time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err = locker.Acquire(ctx, "item-1", 30*time.Second, 100*time.Millisecond)
		if !errors.Is(err, domainErr.ErrSyncInProgress) {
			t.Errorf("expected ErrSyncInProgress, got %v", err)
		}
	})

	t.Run("should acquire once previous holder releases", func(t *testing.T) {
		locker, _ := setupLocker(t)
		ctx := context.Background()

		first, err := locker.Acquire(ctx, "item-1", 30*time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		go func() {
			time.Sleep(100 * time.Millisecond)
			first.Release(ctx)
		}()

		second, err := locker.Acquire(ctx, "item-1", 30*time.Second, 2*time.Second)
		if err != nil {
			t.Fatalf("expected lock after release, got %v", err)
		}
		second.Release(ctx)
	})

	t.Run("should not let different keys block each other", func(t *testing.T) {
		locker, _ := setupLocker(t)
		ctx := context.Background()

		if _, err := locker.Acquire(ctx, "item-1", 30*time.Second, time.Second); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := locker.Acquire(ctx, "item-2", 30*time.Second, time.Second); err != nil {
			t.Fatalf("expected no error for other key, got %v", err)
		}
	})
}

func TestRedisLock_Release(t *testing.T) {
	t.Run("should not release a lock taken over after expiry", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		stale, err := locker.Acquire(ctx, "item-1", time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Simulate TTL expiry and a second worker taking the lock.
		mr.FastForward(2 * time.Second)
		fresh, err := locker.Acquire(ctx, "item-1", 30*time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected lock after expiry, got %v", err)
		}

		if err := stale.Release(ctx); err != nil {
			t.Fatalf("expected no error on stale release, got %v", err)
		}
		if !mr.Exists("manna:lock:item-1") {
			t.Error("stale holder must not delete the new holder's lock")
		}

		fresh.Release(ctx)
	})
}

func TestRedisLock_Extend(t *testing.T) {
	t.Run("should extend ttl for current holder", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		lock, err := locker.Acquire(ctx, "item-1", time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := lock.Extend(ctx, 30*time.Second); err != nil {
			t.Fatalf("expected no error on extend, got %v", err)
		}

		mr.FastForward(2 * time.Second)
		if !mr.Exists("manna:lock:item-1") {
			t.Error("expected lock to survive its original ttl after extend")
		}
	})

	t.Run("should fail to extend an expired lock", func(t *testing.T) {
		locker, mr := setupLocker(t)
		ctx := context.Background()

		lock, err := locker.Acquire(ctx, "item-1", time.Second, time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		mr.FastForward(2 * time.Second)

		if err := lock.Extend(ctx, 30*time.Second); !errors.Is(err, domainErr.ErrSyncInProgress) {
			t.Errorf("expected ErrSyncInProgress, got %v", err)
		}
	})
}
