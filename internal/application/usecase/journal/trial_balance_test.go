package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

type fakeJournalRepo struct {
	adapter.JournalRepository

	entries []*entity.JournalEntry
}

func (r *fakeJournalRepo) FindByUserAndDateRange(
	_ context.Context,
	_ uuid.UUID,
	_, _ time.Time,
) ([]*entity.JournalEntry, error) {
	return r.entries, nil
}

func entry(userID uuid.UUID, debit, credit string, amount float64) *entity.JournalEntry {
	return entity.NewJournalEntry(
		userID,
		uuid.New(),
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		"memo",
		debit,
		credit,
		decimal.NewFromFloat(amount),
	)
}

func TestGetTrialBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("aggregates per account and stays balanced", func(t *testing.T) {
		repo := &fakeJournalRepo{entries: []*entity.JournalEntry{
			entry(userID, "Expenses:Groceries", "Assets:Cash", 80),
			entry(userID, "Expenses:Groceries", "Assets:Cash", 20),
			entry(userID, "Assets:Cash", "Income:Salary", 3000),
		}}
		useCase := NewGetTrialBalanceUseCase(repo)

		output, err := useCase.Execute(ctx, GetTrialBalanceInput{
			UserID:    userID,
			StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tb := output.TrialBalance
		if len(tb.Accounts) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(tb.Accounts))
		}
		if !tb.TotalDebits().Equal(tb.TotalCredits()) {
			t.Errorf("trial balance out of balance: debits %s, credits %s",
				tb.TotalDebits(), tb.TotalCredits())
		}

		// Accounts come back sorted by name
		if tb.Accounts[0].Account != "Assets:Cash" {
			t.Errorf("expected Assets:Cash first, got %s", tb.Accounts[0].Account)
		}
		cash := tb.Accounts[0]
		if !cash.Debits.Equal(decimal.NewFromInt(3000)) || !cash.Credits.Equal(decimal.NewFromInt(100)) {
			t.Errorf("unexpected cash totals: debits %s, credits %s", cash.Debits, cash.Credits)
		}
		if !cash.Net().Equal(decimal.NewFromInt(2900)) {
			t.Errorf("expected net 2900, got %s", cash.Net())
		}

		groceries := tb.Accounts[1]
		if groceries.Account != "Expenses:Groceries" || !groceries.Debits.Equal(decimal.NewFromInt(100)) {
			t.Errorf("unexpected groceries row: %+v", groceries)
		}
	})

	t.Run("returns an empty balance for a quiet period", func(t *testing.T) {
		useCase := NewGetTrialBalanceUseCase(&fakeJournalRepo{})

		output, err := useCase.Execute(ctx, GetTrialBalanceInput{
			UserID:    userID,
			StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.TrialBalance.Accounts) != 0 {
			t.Errorf("expected no accounts, got %d", len(output.TrialBalance.Accounts))
		}
		if !output.TrialBalance.TotalDebits().IsZero() {
			t.Error("expected zero debits")
		}
	})
}
