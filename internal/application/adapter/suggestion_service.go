// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// CategorizationContext carries everything a suggestion provider needs to
// propose categories for a user's uncategorized transactions.
type CategorizationContext struct {
	UserID             uuid.UUID
	Transactions       []*entity.Transaction
	ExistingCategories []*entity.Category
	// TrainingSamples are the user's already-categorized transactions, used
	// by statistical providers to learn the user's habits.
	TrainingSamples []*entity.Transaction
}

// ProviderSuggestion is one proposal from a suggestion provider before it is
// persisted.
type ProviderSuggestion struct {
	TransactionID          string  // Primary transaction the proposal is for
	CategoryID             *string // Existing category, or nil when proposing a new one
	SuggestedNew           *entity.SuggestedCategoryNew
	MatchType              entity.MatchType
	MatchKeyword           string
	Confidence             float64
	Source                 entity.SuggestionSource
	Reasoning              string
	AffectedTransactionIDs []string
}

// SuggestionProvider proposes categories for uncategorized transactions.
// Providers are layered: rules first, then the classifier, then the LLM for
// whatever remains.
type SuggestionProvider interface {
	// Suggest returns proposals for the transactions in the context. A
	// provider may cover only a subset; uncovered transactions fall through
	// to the next provider.
	Suggest(ctx context.Context, cc CategorizationContext) ([]ProviderSuggestion, error)
}
