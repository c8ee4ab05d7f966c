package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// GetSummaryInput represents the input for the reconciliation summary.
type GetSummaryInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// GetSummaryOutput represents the output of the reconciliation summary.
type GetSummaryOutput struct {
	Summary valueobject.ReconciliationSummary
}

// GetSummaryUseCase reports how much of the period is reconciled and how
// much an auto-match run could still resolve.
type GetSummaryUseCase struct {
	transactionRepo    adapter.TransactionRepository
	reconciliationRepo adapter.ReconciliationRepository
	config             valueobject.MatchingConfig
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	transactionRepo adapter.TransactionRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		config:             valueobject.DefaultMatchingConfig(),
	}
}

// Execute computes the summary.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	start, end := resolveDateRange(input.StartDate, input.EndDate)

	manualTxns, err := uc.transactionRepo.FindBySourceAndDateRange(
		ctx, input.UserID, entity.TransactionSourceManual, start, end)
	if err != nil {
		return nil, err
	}

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

	pairs, err := uc.reconciliationRepo.FindLinkedPairs(ctx, input.UserID, start, end)
	if err != nil {
		return nil, err
	}

	entries := buildPendingEntries(manualTxns, bankTxns, linked, uc.config)

	summary := valueobject.ReconciliationSummary{
		TotalPending: len(entries),
		TotalLinked:  len(pairs),
	}
	for _, entry := range entries {
		if isAutoLinkable(entry) {
			summary.AutoLinkable++
		}
	}

	return &GetSummaryOutput{Summary: summary}, nil
}

// isAutoLinkable reports whether an auto-match run would link this entry
// without asking the user: exactly one candidate, at high confidence.
func isAutoLinkable(entry valueobject.PendingEntry) bool {
	return len(entry.Candidates) == 1 &&
		entry.Candidates[0].Confidence == valueobject.ConfidenceHigh
}
