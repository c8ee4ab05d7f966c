// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	UserID        uuid.UUID
	AccountID     *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryIDs   []uuid.UUID
	Type          *entity.TransactionType
	Source        *entity.TransactionSource
	Search        string // Case-insensitive description match
	Uncategorized bool
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDWithCategory retrieves a transaction with its category by ID.
	FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// GetTotals calculates totals for transactions based on filter criteria.
	GetTotals(ctx context.Context, filter TransactionFilter) (*entity.TransactionTotals, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkDelete soft-deletes multiple transactions by their IDs.
	// Returns the count of deleted transactions.
	BulkDelete(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)

	// BulkUpdateCategory updates the category for multiple transactions.
	// Returns the count of updated transactions.
	BulkUpdateCategory(ctx context.Context, ids []uuid.UUID, categoryID uuid.UUID, userID uuid.UUID) (int64, error)

	// BulkUpdateCategoryByPattern updates the category for all uncategorized
	// transactions whose description matches the given regex pattern.
	BulkUpdateCategoryByPattern(ctx context.Context, pattern string, categoryID uuid.UUID, userID uuid.UUID) (int, error)

	// ExistsAllByIDsAndUser checks if all transactions exist for the given IDs and user.
	ExistsAllByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error)

	// FindByPlaidID retrieves a transaction by its Plaid transaction ID.
	FindByPlaidID(ctx context.Context, userID uuid.UUID, plaidTransactionID string) (*entity.Transaction, error)

	// UpsertPlaidTransaction inserts a Plaid-synced transaction or, when a row
	// with the same Plaid transaction ID exists, updates it in place while
	// preserving any category the user already assigned. On return the
	// entity's ID and category reflect the stored row.
	UpsertPlaidTransaction(ctx context.Context, transaction *entity.Transaction) error

	// DeleteByPlaidID soft-deletes a transaction by its Plaid transaction ID.
	DeleteByPlaidID(ctx context.Context, userID uuid.UUID, plaidTransactionID string) error

	// FindUncategorizedByUser retrieves uncategorized transactions for a user.
	FindUncategorizedByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error)

	// CountUncategorizedByUser counts transactions with no category assigned.
	CountUncategorizedByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// FindCategorizedByUser retrieves categorized transactions for a user,
	// used as training data for the classifier.
	FindCategorizedByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error)

	// FindBySourceAndDateRange retrieves transactions of one source within a
	// date range, used by the reconciliation matcher.
	FindBySourceAndDateRange(
		ctx context.Context,
		userID uuid.UUID,
		source entity.TransactionSource,
		startDate, endDate time.Time,
	) ([]*entity.Transaction, error)

	// GetExpensesByDateRange returns categorized expense transactions for a
	// user within the date range, including category info.
	GetExpensesByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*entity.TransactionWithCategory, error)
}
