package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

func trainingTxn(userID uuid.UUID, description string, categoryID uuid.UUID) *entity.Transaction {
	txn := entity.NewTransaction(
		userID, nil,
		time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		description,
		decimal.NewFromInt(-25),
		entity.TransactionTypeExpense,
		&categoryID,
		"",
	)
	return txn
}

func pendingTxn(userID uuid.UUID, description string) *entity.Transaction {
	return entity.NewTransaction(
		userID, nil,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		description,
		decimal.NewFromInt(-25),
		entity.TransactionTypeExpense,
		nil,
		"",
	)
}

func TestClassifierProvider(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	groceries := entity.NewCategory(userID, "Groceries", "#22C55E", "shopping-cart", entity.CategoryTypeExpense)
	coffee := entity.NewCategory(userID, "Coffee", "#A16207", "coffee", entity.CategoryTypeExpense)
	categories := []*entity.Category{groceries, coffee}

	var training []*entity.Transaction
	for i := 0; i < 15; i++ {
		training = append(training, trainingTxn(userID, fmt.Sprintf("WHOLEFDS MARKET #%d", 1000+i), groceries.ID))
		training = append(training, trainingTxn(userID, fmt.Sprintf("STARBUCKS STORE %d", 2000+i), coffee.ID))
	}

	provider := NewClassifierProvider()

	t.Run("predicts a category the user keeps using", func(t *testing.T) {
		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID:             userID,
			Transactions:       []*entity.Transaction{pendingTxn(userID, "STARBUCKS STORE 2099")},
			ExistingCategories: categories,
			TrainingSamples:    training,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 1 {
			t.Fatalf("expected 1 proposal, got %d", len(proposals))
		}

		proposal := proposals[0]
		if proposal.CategoryID == nil || *proposal.CategoryID != coffee.ID.String() {
			t.Errorf("expected coffee category, got %v", proposal.CategoryID)
		}
		if proposal.Source != entity.SuggestionSourceClassifier {
			t.Errorf("expected classifier source, got %s", proposal.Source)
		}
		if proposal.Confidence < classifierMinConfidence {
			t.Errorf("confidence %f below threshold", proposal.Confidence)
		}
		if proposal.MatchKeyword != "starbucks" {
			t.Errorf("expected keyword starbucks, got %q", proposal.MatchKeyword)
		}
	})

	t.Run("groups repeats of the same merchant into one proposal", func(t *testing.T) {
		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID: userID,
			Transactions: []*entity.Transaction{
				pendingTxn(userID, "STARBUCKS STORE 2101"),
				pendingTxn(userID, "STARBUCKS STORE 2102"),
				pendingTxn(userID, "STARBUCKS STORE 2103"),
			},
			ExistingCategories: categories,
			TrainingSamples:    training,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 1 {
			t.Fatalf("expected 1 grouped proposal, got %d", len(proposals))
		}
		if len(proposals[0].AffectedTransactionIDs) != 2 {
			t.Errorf("expected 2 affected transactions, got %d", len(proposals[0].AffectedTransactionIDs))
		}
	})

	t.Run("stays quiet with too little history", func(t *testing.T) {
		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID:             userID,
			Transactions:       []*entity.Transaction{pendingTxn(userID, "STARBUCKS STORE 2104")},
			ExistingCategories: categories,
			TrainingSamples:    training[:5],
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 0 {
			t.Errorf("expected no proposals, got %d", len(proposals))
		}
	})

	t.Run("ignores training rows pointing at deleted categories", func(t *testing.T) {
		deleted := uuid.New()
		var skewed []*entity.Transaction
		for i := 0; i < 30; i++ {
			skewed = append(skewed, trainingTxn(userID, fmt.Sprintf("STARBUCKS STORE %d", i), deleted))
		}
		skewed = append(skewed, training...)

		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID:             userID,
			Transactions:       []*entity.Transaction{pendingTxn(userID, "STARBUCKS STORE 2105")},
			ExistingCategories: categories,
			TrainingSamples:    skewed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, proposal := range proposals {
			if proposal.CategoryID != nil && *proposal.CategoryID == deleted.String() {
				t.Error("proposal points at a category the user no longer has")
			}
		}
	})
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("UBER *TRIP 4512 SF 03/15")
	want := []string{"uber", "trip"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("expected token %q, got %q", want[i], tokens[i])
		}
	}
}
