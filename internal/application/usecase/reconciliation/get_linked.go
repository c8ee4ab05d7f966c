package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// GetLinkedInput represents the input for listing reconciled pairs.
type GetLinkedInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// GetLinkedOutput represents the output of listing reconciled pairs.
type GetLinkedOutput struct {
	Pairs []valueobject.LinkedPair
}

// GetLinkedUseCase lists the reconciled manual/bank transaction pairs.
type GetLinkedUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewGetLinkedUseCase creates a new GetLinkedUseCase instance.
func NewGetLinkedUseCase(reconciliationRepo adapter.ReconciliationRepository) *GetLinkedUseCase {
	return &GetLinkedUseCase{
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute performs the linked pair listing.
func (uc *GetLinkedUseCase) Execute(ctx context.Context, input GetLinkedInput) (*GetLinkedOutput, error) {
	start, end := resolveDateRange(input.StartDate, input.EndDate)

	pairs, err := uc.reconciliationRepo.FindLinkedPairs(ctx, input.UserID, start, end)
	if err != nil {
		return nil, err
	}

	return &GetLinkedOutput{Pairs: pairs}, nil
}
