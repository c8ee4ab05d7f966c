package categorization

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

func (r *fakeTxnRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, ok := r.byID[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	return txn, nil
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

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	for _, category := range r.categories {
		if category.ID == id {
			return category, nil
		}
	}
	return nil, domainerror.ErrCategoryNotFound
}

func (r *fakeSuggestionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.CategorySuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	suggestion, ok := r.suggestions[id]
	if !ok {
		return nil, domainerror.ErrSuggestionNotFound
	}
	return suggestion, nil
}

func (r *fakeSuggestionRepo) Update(_ context.Context, suggestion *entity.CategorySuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions[suggestion.ID] = suggestion
	return nil
}

// fakeRuleRepo is only consulted when approval also creates a rule.
type fakeRuleRepo struct {
	adapter.CategoryRuleRepository
}

// fakeJournalRepo records rebuilt journal entries.
type fakeJournalRepo struct {
	adapter.JournalRepository

	upserts []*entity.JournalEntry
}

func (r *fakeJournalRepo) Upsert(_ context.Context, entry *entity.JournalEntry) error {
	r.upserts = append(r.upserts, entry)
	return nil
}

func TestApproveSuggestion(t *testing.T) {
	ctx := context.Background()

	newFixtureTxn := func(userID uuid.UUID, description string) *entity.Transaction {
		return entity.NewTransaction(
			userID,
			nil,
			time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
			description,
			decimal.NewFromFloat(-8.25),
			entity.TransactionTypeExpense,
			nil,
			"",
		)
	}

	t.Run("applies the category and rebuilds the journal entries", func(t *testing.T) {
		userID := uuid.New()
		category := entity.NewCategory(userID, "Coffee", "#6f4e37", "coffee", entity.CategoryTypeExpense)
		primary := newFixtureTxn(userID, "SQ *COFFEE CART")
		affected := newFixtureTxn(userID, "COFFEE ROASTERS")

		suggestion := entity.NewCategorySuggestion(
			userID, primary.ID, category.ID,
			entity.MatchTypeContains, "coffee",
			[]uuid.UUID{affected.ID},
			0.9, entity.SuggestionSourceRule, "",
		)

		txns := &fakeTxnRepo{byID: map[uuid.UUID]*entity.Transaction{
			primary.ID:  primary,
			affected.ID: affected,
		}}
		suggestions := &fakeSuggestionRepo{
			suggestions: map[uuid.UUID]*entity.CategorySuggestion{suggestion.ID: suggestion},
		}
		journal := &fakeJournalRepo{}
		uc := NewApproveSuggestionUseCase(
			suggestions,
			txns,
			&fakeCategoryRepo{categories: []*entity.Category{category}},
			&fakeRuleRepo{},
			journal,
		)

		output, err := uc.Execute(ctx, ApproveSuggestionInput{UserID: userID, SuggestionID: suggestion.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.TransactionsUpdated != 2 {
			t.Errorf("expected 2 transactions updated, got %d", output.TransactionsUpdated)
		}
		if output.CategoryID != category.ID {
			t.Errorf("expected category %s, got %s", category.ID, output.CategoryID)
		}

		if len(journal.upserts) != 2 {
			t.Fatalf("expected 2 journal entries rebuilt, got %d", len(journal.upserts))
		}
		for _, entry := range journal.upserts {
			if entry.DebitAccount != "Expenses:Coffee" {
				t.Errorf("expected debit Expenses:Coffee, got %s", entry.DebitAccount)
			}
		}
		if suggestions.suggestions[suggestion.ID].Status != entity.SuggestionStatusApproved {
			t.Error("suggestion was not marked approved")
		}
	})

	t.Run("refuses a suggestion that was already resolved", func(t *testing.T) {
		userID := uuid.New()
		category := entity.NewCategory(userID, "Coffee", "#6f4e37", "coffee", entity.CategoryTypeExpense)
		primary := newFixtureTxn(userID, "SQ *COFFEE CART")

		suggestion := entity.NewCategorySuggestion(
			userID, primary.ID, category.ID,
			entity.MatchTypeContains, "coffee",
			nil, 0.9, entity.SuggestionSourceRule, "",
		)
		suggestion.Status = entity.SuggestionStatusRejected

		journal := &fakeJournalRepo{}
		uc := NewApproveSuggestionUseCase(
			&fakeSuggestionRepo{suggestions: map[uuid.UUID]*entity.CategorySuggestion{suggestion.ID: suggestion}},
			&fakeTxnRepo{byID: map[uuid.UUID]*entity.Transaction{primary.ID: primary}},
			&fakeCategoryRepo{categories: []*entity.Category{category}},
			&fakeRuleRepo{},
			journal,
		)

		_, err := uc.Execute(ctx, ApproveSuggestionInput{UserID: userID, SuggestionID: suggestion.ID})
		if !errors.Is(err, domainerror.ErrSuggestionNotPending) {
			t.Fatalf("expected ErrSuggestionNotPending, got %v", err)
		}
		if len(journal.upserts) != 0 {
			t.Errorf("expected no journal entries, got %d", len(journal.upserts))
		}
	})
}
