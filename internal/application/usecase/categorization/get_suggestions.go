package categorization

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// GetSuggestionsInput represents the input for listing pending suggestions.
type GetSuggestionsInput struct {
	UserID uuid.UUID
}

// SuggestionOutput represents one pending suggestion in the output.
type SuggestionOutput struct {
	ID                       uuid.UUID
	TransactionID            uuid.UUID
	TransactionDate          time.Time
	TransactionDescription   string
	TransactionAmount        decimal.Decimal
	SuggestedCategoryID      *uuid.UUID
	SuggestedCategoryName    string
	SuggestedCategoryNew     *entity.SuggestedCategoryNew
	MatchKeyword             string
	Confidence               float64
	Source                   entity.SuggestionSource
	Reasoning                string
	AffectedTransactionCount int
}

// GetSuggestionsOutput represents the output of listing pending suggestions.
type GetSuggestionsOutput struct {
	Suggestions []*SuggestionOutput
}

// GetSuggestionsUseCase lists the user's pending suggestions for review.
type GetSuggestionsUseCase struct {
	suggestionRepo adapter.SuggestionRepository
}

// NewGetSuggestionsUseCase creates a new GetSuggestionsUseCase instance.
func NewGetSuggestionsUseCase(suggestionRepo adapter.SuggestionRepository) *GetSuggestionsUseCase {
	return &GetSuggestionsUseCase{
		suggestionRepo: suggestionRepo,
	}
}

// Execute performs the suggestion listing.
func (uc *GetSuggestionsUseCase) Execute(ctx context.Context, input GetSuggestionsInput) (*GetSuggestionsOutput, error) {
	pending, err := uc.suggestionRepo.FindPendingByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	output := &GetSuggestionsOutput{
		Suggestions: make([]*SuggestionOutput, 0, len(pending)),
	}
	for _, details := range pending {
		s := details.Suggestion
		out := &SuggestionOutput{
			ID:                       s.ID,
			TransactionID:            s.TransactionID,
			SuggestedCategoryID:      s.SuggestedCategoryID,
			SuggestedCategoryNew:     s.SuggestedCategoryNew,
			MatchKeyword:             s.MatchKeyword,
			Confidence:               s.Confidence,
			Source:                   s.Source,
			Reasoning:                s.Reasoning,
			AffectedTransactionCount: details.AffectedTransactionCount,
		}
		if details.Transaction != nil {
			out.TransactionDate = details.Transaction.Date
			out.TransactionDescription = details.Transaction.Description
			out.TransactionAmount = details.Transaction.Amount
		}
		if details.Category != nil {
			out.SuggestedCategoryName = details.Category.Name
		}
		output.Suggestions = append(output.Suggestions, out)
	}

	return output, nil
}
