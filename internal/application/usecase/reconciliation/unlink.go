package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// UnlinkInput represents the input for removing a reconciliation link.
type UnlinkInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID // Either side of the link
}

// UnlinkOutput represents the result of removing a reconciliation link.
type UnlinkOutput struct {
	Success bool
}

// UnlinkUseCase removes the reconciliation link a transaction participates in.
type UnlinkUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewUnlinkUseCase creates a new UnlinkUseCase instance.
func NewUnlinkUseCase(reconciliationRepo adapter.ReconciliationRepository) *UnlinkUseCase {
	return &UnlinkUseCase{
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute performs the unlink operation.
func (uc *UnlinkUseCase) Execute(ctx context.Context, input UnlinkInput) (*UnlinkOutput, error) {
	err := uc.reconciliationRepo.DeleteLink(ctx, input.UserID, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrReconciliationNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeReconciliationNotFound,
				"transaction has no reconciliation link",
				domainerror.ErrReconciliationNotFound,
			)
		}
		return nil, fmt.Errorf("failed to delete reconciliation link: %w", err)
	}

	return &UnlinkOutput{Success: true}, nil
}
