// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// ReconciliationRepository defines the interface for reconciliation link persistence.
type ReconciliationRepository interface {
	// CreateLink records a reconciliation link between a manual transaction
	// and a bank-fed one.
	CreateLink(ctx context.Context, userID, manualTransactionID, bankTransactionID uuid.UUID) error

	// DeleteLink removes the reconciliation link involving the transaction.
	DeleteLink(ctx context.Context, userID, transactionID uuid.UUID) error

	// IsLinked reports whether the transaction participates in any link.
	IsLinked(ctx context.Context, transactionID uuid.UUID) (bool, error)

	// FindLinkedTransactionIDs returns the IDs of all transactions for the
	// user that participate in a link.
	FindLinkedTransactionIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)

	// FindLinkedPairs retrieves the reconciled pairs for a user within a date range.
	FindLinkedPairs(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]valueobject.LinkedPair, error)
}
