package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// fakeTxnRepo embeds the interface and overrides what the use case touches.
type fakeTxnRepo struct {
	adapter.TransactionRepository

	byID map[uuid.UUID]*entity.Transaction
}

func (r *fakeTxnRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, ok := r.byID[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	return txn, nil
}

func (r *fakeTxnRepo) ExistsAllByIDsAndUser(_ context.Context, ids []uuid.UUID, _ uuid.UUID) (bool, error) {
	for _, id := range ids {
		if _, ok := r.byID[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeTxnRepo) BulkUpdateCategory(_ context.Context, ids []uuid.UUID, categoryID uuid.UUID, _ uuid.UUID) (int64, error) {
	var updated int64
	for _, id := range ids {
		if txn, ok := r.byID[id]; ok {
			assigned := categoryID
			txn.CategoryID = &assigned
			updated++
		}
	}
	return updated, nil
}

type fakeCategoryRepo struct {
	adapter.CategoryRepository

	category *entity.Category
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if r.category == nil || r.category.ID != id {
		return nil, domainerror.ErrCategoryNotFound
	}
	return r.category, nil
}

type fakeJournalRepo struct {
	adapter.JournalRepository

	upserts []*entity.JournalEntry
}

func (r *fakeJournalRepo) Upsert(_ context.Context, entry *entity.JournalEntry) error {
	r.upserts = append(r.upserts, entry)
	return nil
}

func expenseTxn(userID uuid.UUID, description string, amount float64) *entity.Transaction {
	return entity.NewTransaction(
		userID,
		nil,
		time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		description,
		decimal.NewFromFloat(amount),
		entity.TransactionTypeExpense,
		nil,
		"",
	)
}

func TestBulkCategorizeTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("recategorizing rebuilds the journal entries", func(t *testing.T) {
		userID := uuid.New()
		category := entity.NewCategory(userID, "Eating Out", "#e76f51", "utensils", entity.CategoryTypeExpense)
		lunch := expenseTxn(userID, "Lunch", 12)
		dinner := expenseTxn(userID, "Dinner", 30)

		txns := &fakeTxnRepo{byID: map[uuid.UUID]*entity.Transaction{
			lunch.ID:  lunch,
			dinner.ID: dinner,
		}}
		journal := &fakeJournalRepo{}
		uc := NewBulkCategorizeTransactionsUseCase(txns, &fakeCategoryRepo{category: category}, journal)

		output, err := uc.Execute(ctx, BulkCategorizeTransactionsInput{
			TransactionIDs: []uuid.UUID{lunch.ID, dinner.ID},
			CategoryID:     category.ID,
			UserID:         userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.UpdatedCount != 2 {
			t.Errorf("expected 2 updated, got %d", output.UpdatedCount)
		}

		if len(journal.upserts) != 2 {
			t.Fatalf("expected 2 journal entries rebuilt, got %d", len(journal.upserts))
		}
		for _, entry := range journal.upserts {
			if entry.DebitAccount != "Expenses:Eating Out" {
				t.Errorf("expected debit Expenses:Eating Out, got %s", entry.DebitAccount)
			}
			if entry.CreditAccount != "Assets:Cash" {
				t.Errorf("expected credit Assets:Cash, got %s", entry.CreditAccount)
			}
		}
		if journal.upserts[0].TransactionID != lunch.ID || journal.upserts[1].TransactionID != dinner.ID {
			t.Error("journal entries not keyed to the recategorized transactions")
		}
	})

	t.Run("rejects a category owned by another user", func(t *testing.T) {
		userID := uuid.New()
		category := entity.NewCategory(uuid.New(), "Eating Out", "#e76f51", "utensils", entity.CategoryTypeExpense)
		lunch := expenseTxn(userID, "Lunch", 12)

		journal := &fakeJournalRepo{}
		uc := NewBulkCategorizeTransactionsUseCase(
			&fakeTxnRepo{byID: map[uuid.UUID]*entity.Transaction{lunch.ID: lunch}},
			&fakeCategoryRepo{category: category},
			journal,
		)

		_, err := uc.Execute(ctx, BulkCategorizeTransactionsInput{
			TransactionIDs: []uuid.UUID{lunch.ID},
			CategoryID:     category.ID,
			UserID:         userID,
		})
		if !errors.Is(err, domainerror.ErrCategoryNotOwnedByUser) {
			t.Fatalf("expected ErrCategoryNotOwnedByUser, got %v", err)
		}
		if len(journal.upserts) != 0 {
			t.Errorf("expected no journal entries, got %d", len(journal.upserts))
		}
	})
}
