// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// SyncLock is a held distributed lock.
type SyncLock interface {
	// Release frees the lock if this holder still owns it.
	Release(ctx context.Context) error

	// Extend pushes the lock's expiry forward, for long-running work.
	Extend(ctx context.Context, ttl time.Duration) error
}

// SyncLocker acquires distributed locks that serialize work on a shared
// resource across processes, keyed by resource name.
type SyncLocker interface {
	// Acquire takes the lock for key, waiting up to wait for another holder
	// to release it. The lock auto-expires after ttl if never released.
	// Returns ErrSyncInProgress when the lock cannot be taken in time.
	Acquire(ctx context.Context, key string, ttl, wait time.Duration) (SyncLock, error)
}
