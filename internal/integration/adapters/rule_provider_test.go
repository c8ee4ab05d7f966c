package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

type fakeRuleRepo struct {
	adapter.CategoryRuleRepository

	rules []*entity.CategoryRule
}

func (r *fakeRuleRepo) FindActiveByUser(_ context.Context, _ uuid.UUID) ([]*entity.CategoryRule, error) {
	return r.rules, nil
}

func TestRuleProvider(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	groceriesID := uuid.New()
	transportID := uuid.New()
	rules := []*entity.CategoryRule{
		entity.NewCategoryRule(userID, `whole\s*foods`, groceriesID, 10),
		entity.NewCategoryRule(userID, `uber`, transportID, 5),
	}

	t.Run("groups matches per rule with the rule's category", func(t *testing.T) {
		provider := NewRuleProvider(&fakeRuleRepo{rules: rules})

		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID: userID,
			Transactions: []*entity.Transaction{
				pendingTxn(userID, "WHOLE FOODS MKT 123"),
				pendingTxn(userID, "WHOLEFOODS ONLINE"),
				pendingTxn(userID, "UBER *TRIP"),
				pendingTxn(userID, "ACME HARDWARE"),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 2 {
			t.Fatalf("expected 2 proposals, got %d", len(proposals))
		}

		groceries := proposals[0]
		if groceries.CategoryID == nil || *groceries.CategoryID != groceriesID.String() {
			t.Errorf("expected groceries category, got %v", groceries.CategoryID)
		}
		if len(groceries.AffectedTransactionIDs) != 1 {
			t.Errorf("expected 1 affected transaction, got %d", len(groceries.AffectedTransactionIDs))
		}
		if groceries.Source != entity.SuggestionSourceRule {
			t.Errorf("expected rule source, got %s", groceries.Source)
		}
		if groceries.Confidence != 1.0 {
			t.Errorf("expected confidence 1.0, got %f", groceries.Confidence)
		}
	})

	t.Run("first matching rule by priority claims the transaction", func(t *testing.T) {
		overlapID := uuid.New()
		overlapping := []*entity.CategoryRule{
			entity.NewCategoryRule(userID, `uber\s*eats`, overlapID, 20),
			entity.NewCategoryRule(userID, `uber`, transportID, 5),
		}
		provider := NewRuleProvider(&fakeRuleRepo{rules: overlapping})

		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID:       userID,
			Transactions: []*entity.Transaction{pendingTxn(userID, "UBER EATS ORDER")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 1 {
			t.Fatalf("expected 1 proposal, got %d", len(proposals))
		}
		if *proposals[0].CategoryID != overlapID.String() {
			t.Error("expected the higher priority rule to claim the transaction")
		}
	})

	t.Run("skips rules with invalid patterns", func(t *testing.T) {
		broken := []*entity.CategoryRule{
			entity.NewCategoryRule(userID, `([invalid`, groceriesID, 10),
			entity.NewCategoryRule(userID, `uber`, transportID, 5),
		}
		provider := NewRuleProvider(&fakeRuleRepo{rules: broken})

		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID:       userID,
			Transactions: []*entity.Transaction{pendingTxn(userID, "UBER *TRIP")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 1 {
			t.Fatalf("expected 1 proposal, got %d", len(proposals))
		}
	})

	t.Run("returns nothing without rules", func(t *testing.T) {
		provider := NewRuleProvider(&fakeRuleRepo{})

		proposals, err := provider.Suggest(ctx, adapter.CategorizationContext{
			UserID:       userID,
			Transactions: []*entity.Transaction{pendingTxn(userID, "ANYTHING")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proposals) != 0 {
			t.Errorf("expected no proposals, got %d", len(proposals))
		}
	})
}
