package categorization

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
)

// GetStatusInput represents the input for checking the run status.
type GetStatusInput struct {
	UserID uuid.UUID
}

// GetStatusOutput represents the output of checking the run status.
type GetStatusOutput struct {
	Processing   bool
	JobID        string
	PendingCount int
	LastError    *RunError
}

// GetStatusUseCase reports whether a run is in flight and how many
// suggestions await review.
type GetStatusUseCase struct {
	suggestionRepo adapter.SuggestionRepository
	tracker        ProcessingTracker
}

// NewGetStatusUseCase creates a new GetStatusUseCase instance.
func NewGetStatusUseCase(
	suggestionRepo adapter.SuggestionRepository,
	tracker ProcessingTracker,
) *GetStatusUseCase {
	return &GetStatusUseCase{
		suggestionRepo: suggestionRepo,
		tracker:        tracker,
	}
}

// Execute performs the status query.
func (uc *GetStatusUseCase) Execute(ctx context.Context, input GetStatusInput) (*GetStatusOutput, error) {
	status := uc.tracker.Status(input.UserID)

	pending, err := uc.suggestionRepo.FindPendingByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetStatusOutput{
		Processing:   status.Processing,
		JobID:        status.JobID,
		PendingCount: len(pending),
		LastError:    status.LastError,
	}, nil
}
