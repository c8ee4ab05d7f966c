package categorization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// RejectSuggestionInput represents the input for rejecting a suggestion.
type RejectSuggestionInput struct {
	UserID       uuid.UUID
	SuggestionID uuid.UUID
}

// RejectSuggestionOutput represents the result of rejecting a suggestion.
type RejectSuggestionOutput struct {
	Success bool
}

// RejectSuggestionUseCase marks a pending suggestion as rejected.
type RejectSuggestionUseCase struct {
	suggestionRepo adapter.SuggestionRepository
}

// NewRejectSuggestionUseCase creates a new RejectSuggestionUseCase instance.
func NewRejectSuggestionUseCase(suggestionRepo adapter.SuggestionRepository) *RejectSuggestionUseCase {
	return &RejectSuggestionUseCase{
		suggestionRepo: suggestionRepo,
	}
}

// Execute performs the rejection.
func (uc *RejectSuggestionUseCase) Execute(ctx context.Context, input RejectSuggestionInput) (*RejectSuggestionOutput, error) {
	suggestion, err := uc.suggestionRepo.FindByID(ctx, input.SuggestionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSuggestionNotFound) {
			return nil, domainerror.NewCategorizationError(
				domainerror.ErrCodeSuggestionNotFound,
				"suggestion not found",
				domainerror.ErrSuggestionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find suggestion: %w", err)
	}
	if suggestion.UserID != input.UserID {
		return nil, domainerror.NewCategorizationError(
			domainerror.ErrCodeNotAuthorizedSuggestion,
			"not authorized to access this suggestion",
			domainerror.ErrNotAuthorizedSuggestion,
		)
	}
	if suggestion.Status != entity.SuggestionStatusPending {
		return nil, domainerror.NewCategorizationError(
			domainerror.ErrCodeSuggestionNotPending,
			"suggestion was already resolved",
			domainerror.ErrSuggestionNotPending,
		)
	}

	suggestion.Status = entity.SuggestionStatusRejected
	suggestion.UpdatedAt = time.Now().UTC()
	if err := uc.suggestionRepo.Update(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to update suggestion: %w", err)
	}

	return &RejectSuggestionOutput{Success: true}, nil
}
