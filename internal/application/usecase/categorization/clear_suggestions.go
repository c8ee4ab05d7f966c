package categorization

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
)

// ClearSuggestionsInput represents the input for clearing pending suggestions.
type ClearSuggestionsInput struct {
	UserID uuid.UUID
}

// ClearSuggestionsOutput represents the result of clearing pending suggestions.
type ClearSuggestionsOutput struct {
	Deleted int64
}

// ClearSuggestionsUseCase discards all of the user's pending suggestions.
type ClearSuggestionsUseCase struct {
	suggestionRepo adapter.SuggestionRepository
}

// NewClearSuggestionsUseCase creates a new ClearSuggestionsUseCase instance.
func NewClearSuggestionsUseCase(suggestionRepo adapter.SuggestionRepository) *ClearSuggestionsUseCase {
	return &ClearSuggestionsUseCase{
		suggestionRepo: suggestionRepo,
	}
}

// Execute performs the clear operation.
func (uc *ClearSuggestionsUseCase) Execute(ctx context.Context, input ClearSuggestionsInput) (*ClearSuggestionsOutput, error) {
	deleted, err := uc.suggestionRepo.DeletePendingByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &ClearSuggestionsOutput{Deleted: deleted}, nil
}
