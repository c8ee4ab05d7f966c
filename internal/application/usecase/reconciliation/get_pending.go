package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// GetPendingInput represents the input for listing unreconciled manual entries.
type GetPendingInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// GetPendingOutput represents the output of listing unreconciled manual entries.
type GetPendingOutput struct {
	Entries []valueobject.PendingEntry
}

// GetPendingUseCase lists manual transactions that have no reconciliation
// link yet, each with its candidate bank matches.
type GetPendingUseCase struct {
	transactionRepo    adapter.TransactionRepository
	reconciliationRepo adapter.ReconciliationRepository
	config             valueobject.MatchingConfig
}

// NewGetPendingUseCase creates a new GetPendingUseCase instance.
func NewGetPendingUseCase(
	transactionRepo adapter.TransactionRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *GetPendingUseCase {
	return &GetPendingUseCase{
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		config:             valueobject.DefaultMatchingConfig(),
	}
}

// Execute performs the pending entry listing.
func (uc *GetPendingUseCase) Execute(ctx context.Context, input GetPendingInput) (*GetPendingOutput, error) {
	start, end := resolveDateRange(input.StartDate, input.EndDate)

	manualTxns, err := uc.transactionRepo.FindBySourceAndDateRange(
		ctx, input.UserID, entity.TransactionSourceManual, start, end)
	if err != nil {
		return nil, err
	}

	// Candidates may sit a few days outside the manual entry's own range
	bankStart := start.AddDate(0, 0, -uc.config.DateToleranceDays)
	bankEnd := end.AddDate(0, 0, uc.config.DateToleranceDays)
	bankTxns, err := uc.transactionRepo.FindBySourceAndDateRange(
		ctx, input.UserID, entity.TransactionSourcePlaid, bankStart, bankEnd)
	if err != nil {
		return nil, err
	}

	linked, err := uc.reconciliationRepo.FindLinkedTransactionIDs(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetPendingOutput{
		Entries: buildPendingEntries(manualTxns, bankTxns, linked, uc.config),
	}, nil
}
