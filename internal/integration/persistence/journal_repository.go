// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
)

// journalRepository implements the adapter.JournalRepository interface.
type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new journal repository instance.
func NewJournalRepository(db *gorm.DB) adapter.JournalRepository {
	return &journalRepository{
		db: db,
	}
}

// Create creates a new journal entry in the database.
func (r *journalRepository) Create(ctx context.Context, entry *entity.JournalEntry) error {
	entryModel := model.JournalEntryFromEntity(entry)
	result := r.db.WithContext(ctx).Create(entryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByTransaction retrieves the journal entry derived from a transaction.
func (r *journalRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*entity.JournalEntry, error) {
	var entryModel model.JournalEntryModel
	result := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&entryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return entryModel.ToEntity(), nil
}

// FindByUserAndDateRange retrieves journal entries for a user within a date range.
func (r *journalRepository) FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*entity.JournalEntry, error) {
	var entryModels []model.JournalEntryModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date ASC, created_at ASC").
		Find(&entryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.JournalEntry, len(entryModels))
	for i, em := range entryModels {
		entries[i] = em.ToEntity()
	}
	return entries, nil
}

// Upsert inserts the entry or replaces the one already derived from the same transaction.
func (r *journalRepository) Upsert(ctx context.Context, entry *entity.JournalEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.JournalEntryModel
		err := tx.Where("transaction_id = ?", entry.TransactionID).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(model.JournalEntryFromEntity(entry)).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&model.JournalEntryModel{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"date":           entry.Date,
				"memo":           entry.Memo,
				"debit_account":  entry.DebitAccount,
				"credit_account": entry.CreditAccount,
				"amount":         entry.Amount,
			}).Error
	})
}

// DeleteByTransaction removes the journal entry derived from a transaction.
func (r *journalRepository) DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Delete(&model.JournalEntryModel{})
	if result.Error != nil {
		return result.Error
	}
	return nil
}
