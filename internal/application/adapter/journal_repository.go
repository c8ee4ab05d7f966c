// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// JournalRepository defines the interface for journal entry persistence.
type JournalRepository interface {
	// Create creates a new journal entry in the database.
	Create(ctx context.Context, entry *entity.JournalEntry) error

	// FindByTransaction retrieves the journal entry derived from a transaction.
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*entity.JournalEntry, error)

	// FindByUserAndDateRange retrieves journal entries for a user within a
	// date range, ordered by entry date.
	FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*entity.JournalEntry, error)

	// Upsert inserts the entry or replaces the one already derived from the
	// same transaction.
	Upsert(ctx context.Context, entry *entity.JournalEntry) error

	// DeleteByTransaction removes the journal entry derived from a transaction.
	DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error
}
