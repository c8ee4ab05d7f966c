// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/application/adapter"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/domain/valueobject"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
)

// reconciliationRepository implements the adapter.ReconciliationRepository interface.
type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository instance.
func NewReconciliationRepository(db *gorm.DB) adapter.ReconciliationRepository {
	return &reconciliationRepository{
		db: db,
	}
}

// CreateLink records a reconciliation link between a manual and a bank transaction.
// The unique indexes on both transaction columns turn a double link into a
// unique violation, which maps to ErrAlreadyLinked.
func (r *reconciliationRepository) CreateLink(ctx context.Context, userID, manualTransactionID, bankTransactionID uuid.UUID) error {
	link := &model.ReconciliationLinkModel{
		ID:                  uuid.New(),
		UserID:              userID,
		ManualTransactionID: manualTransactionID,
		BankTransactionID:   bankTransactionID,
		CreatedAt:           time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Create(link)
	if result.Error != nil {
		var pqErr *pq.Error
		if errors.As(result.Error, &pqErr) && pqErr.Code == "23505" {
			return domainerror.ErrAlreadyLinked
		}
		return result.Error
	}
	return nil
}

// DeleteLink removes the reconciliation link involving the transaction.
func (r *reconciliationRepository) DeleteLink(ctx context.Context, userID, transactionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("manual_transaction_id = ? OR bank_transaction_id = ?", transactionID, transactionID).
		Delete(&model.ReconciliationLinkModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrReconciliationNotFound
	}
	return nil
}

// IsLinked reports whether the transaction participates in any link.
func (r *reconciliationRepository) IsLinked(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.ReconciliationLinkModel{}).
		Where("manual_transaction_id = ? OR bank_transaction_id = ?", transactionID, transactionID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// FindLinkedTransactionIDs returns the IDs of all linked transactions for the user.
func (r *reconciliationRepository) FindLinkedTransactionIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var links []model.ReconciliationLinkModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}

	linked := make(map[uuid.UUID]bool, len(links)*2)
	for _, link := range links {
		linked[link.ManualTransactionID] = true
		linked[link.BankTransactionID] = true
	}
	return linked, nil
}

// linkedPairResult is a raw join row for reconciled pairs.
type linkedPairResult struct {
	ManualTransactionID uuid.UUID
	BankTransactionID   uuid.UUID
	Date                time.Time
	Description         string
	Amount              decimal.Decimal
	LinkedAt            time.Time
}

// FindLinkedPairs retrieves the reconciled pairs for a user within a date range.
func (r *reconciliationRepository) FindLinkedPairs(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]valueobject.LinkedPair, error) {
	var results []linkedPairResult
	err := r.db.WithContext(ctx).
		Table("reconciliation_links rl").
		Select("rl.manual_transaction_id, rl.bank_transaction_id, t.date, t.description, t.amount, rl.created_at as linked_at").
		Joins("INNER JOIN transactions t ON t.id = rl.manual_transaction_id").
		Where("rl.user_id = ?", userID).
		Where("t.date >= ? AND t.date <= ?", startDate, endDate).
		Order("t.date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	pairs := make([]valueobject.LinkedPair, len(results))
	for i, row := range results {
		pairs[i] = valueobject.LinkedPair{
			ManualTransactionID: row.ManualTransactionID,
			BankTransactionID:   row.BankTransactionID,
			Date:                row.Date,
			Description:         row.Description,
			Amount:              row.Amount,
			LinkedAt:            row.LinkedAt,
		}
	}
	return pairs, nil
}
