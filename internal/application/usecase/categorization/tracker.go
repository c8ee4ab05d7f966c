// Package categorization contains the suggestion engine use cases.
package categorization

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus describes the state of a user's categorization run.
type RunStatus struct {
	Processing bool
	JobID      string
	StartedAt  time.Time
	LastError  *RunError
}

// RunError is a user-facing failure from a categorization run.
type RunError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

// ProcessingTracker enforces single-flight categorization per user and keeps
// the outcome of the last run for status queries.
type ProcessingTracker interface {
	// TryStart marks the user as processing under jobID. Returns false when a
	// run is already in flight.
	TryStart(userID uuid.UUID, jobID string) bool

	// Finish marks the user's run as done. The job ID and any recorded error
	// stay visible to Status until the next TryStart.
	Finish(userID uuid.UUID)

	// SetError records a failure for the user's current run.
	SetError(userID uuid.UUID, runErr *RunError)

	// Status returns the current state for the user.
	Status(userID uuid.UUID) RunStatus
}

type trackerState struct {
	processing bool
	jobID      string
	startedAt  time.Time
	lastError  *RunError
}

// InMemoryTracker is a process-local ProcessingTracker.
type InMemoryTracker struct {
	mu     sync.Mutex
	states map[uuid.UUID]*trackerState
}

// NewInMemoryTracker creates an empty tracker.
func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{
		states: make(map[uuid.UUID]*trackerState),
	}
}

// TryStart implements ProcessingTracker.
func (t *InMemoryTracker) TryStart(userID uuid.UUID, jobID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[userID]; ok && state.processing {
		return false
	}
	t.states[userID] = &trackerState{
		processing: true,
		jobID:      jobID,
		startedAt:  time.Now().UTC(),
	}
	return true
}

// Finish implements ProcessingTracker.
func (t *InMemoryTracker) Finish(userID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[userID]; ok {
		state.processing = false
	}
}

// SetError implements ProcessingTracker.
func (t *InMemoryTracker) SetError(userID uuid.UUID, runErr *RunError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[userID]; ok {
		state.lastError = runErr
	}
}

// Status implements ProcessingTracker.
func (t *InMemoryTracker) Status(userID uuid.UUID) RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userID]
	if !ok {
		return RunStatus{}
	}
	return RunStatus{
		Processing: state.processing,
		JobID:      state.jobID,
		StartedAt:  state.startedAt,
		LastError:  state.lastError,
	}
}
