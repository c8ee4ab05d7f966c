package categorization

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInMemoryTracker(t *testing.T) {
	t.Run("starts a run for an idle user", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		userID := uuid.New()

		if !tracker.TryStart(userID, "job-1") {
			t.Fatal("expected TryStart to succeed")
		}

		status := tracker.Status(userID)
		if !status.Processing {
			t.Error("expected processing state")
		}
		if status.JobID != "job-1" {
			t.Errorf("expected job-1, got %q", status.JobID)
		}
	})

	t.Run("refuses a second concurrent run", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		userID := uuid.New()

		tracker.TryStart(userID, "job-1")
		if tracker.TryStart(userID, "job-2") {
			t.Fatal("expected second TryStart to fail")
		}
		if got := tracker.Status(userID).JobID; got != "job-1" {
			t.Errorf("expected original job to survive, got %q", got)
		}
	})

	t.Run("allows a new run after finish", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		userID := uuid.New()

		tracker.TryStart(userID, "job-1")
		tracker.Finish(userID)

		if tracker.Status(userID).Processing {
			t.Error("expected idle state after finish")
		}
		if !tracker.TryStart(userID, "job-2") {
			t.Fatal("expected TryStart to succeed after finish")
		}
	})

	t.Run("keeps the error visible after finish", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		userID := uuid.New()

		tracker.TryStart(userID, "job-1")
		tracker.SetError(userID, &RunError{
			Code:      RunErrCodeRateLimited,
			Message:   "rate limited",
			Retryable: true,
			Timestamp: time.Now().UTC(),
		})
		tracker.Finish(userID)

		status := tracker.Status(userID)
		if status.LastError == nil || status.LastError.Code != RunErrCodeRateLimited {
			t.Errorf("expected rate limit error to survive finish, got %+v", status.LastError)
		}
	})

	t.Run("clears a previous error on the next start", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		userID := uuid.New()

		tracker.TryStart(userID, "job-1")
		tracker.SetError(userID, &RunError{Code: RunErrCodeUnknown})
		tracker.Finish(userID)
		tracker.TryStart(userID, "job-2")

		if tracker.Status(userID).LastError != nil {
			t.Error("expected error cleared by new run")
		}
	})

	t.Run("tracks users independently", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		first := uuid.New()
		second := uuid.New()

		tracker.TryStart(first, "job-1")
		if !tracker.TryStart(second, "job-2") {
			t.Fatal("expected a different user to start independently")
		}
	})

	t.Run("is safe under concurrent starts", func(t *testing.T) {
		tracker := NewInMemoryTracker()
		userID := uuid.New()

		var wg sync.WaitGroup
		var mu sync.Mutex
		started := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if tracker.TryStart(userID, uuid.NewString()) {
					mu.Lock()
					started++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if started != 1 {
			t.Errorf("expected exactly one start to win, got %d", started)
		}
	})
}
