package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// TriggerReconciliationInput represents the input for an auto-match run.
type TriggerReconciliationInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// TriggerReconciliationOutput represents the output of an auto-match run.
type TriggerReconciliationOutput struct {
	Result valueobject.ReconciliationResult
}

// TriggerReconciliationUseCase runs the automatic matcher: unambiguous
// high-confidence candidates are linked, the rest is reported back for
// manual selection.
type TriggerReconciliationUseCase struct {
	transactionRepo    adapter.TransactionRepository
	reconciliationRepo adapter.ReconciliationRepository
	config             valueobject.MatchingConfig
}

// NewTriggerReconciliationUseCase creates a new TriggerReconciliationUseCase instance.
func NewTriggerReconciliationUseCase(
	transactionRepo adapter.TransactionRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *TriggerReconciliationUseCase {
	return &TriggerReconciliationUseCase{
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		config:             valueobject.DefaultMatchingConfig(),
	}
}

// Execute performs one auto-match run.
func (uc *TriggerReconciliationUseCase) Execute(
	ctx context.Context,
	input TriggerReconciliationInput,
) (*TriggerReconciliationOutput, error) {
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

	var result valueobject.ReconciliationResult
	for _, manual := range manualTxns {
		if linked[manual.ID] {
			continue
		}

		// Recompute per entry: earlier auto-links in this run consume bank rows
		candidates := buildCandidates(manual, bankTxns, linked, uc.config)
		entry := valueobject.PendingEntry{
			ManualTransactionID: manual.ID,
			Date:                manual.Date,
			Description:         manual.Description,
			Amount:              manual.Amount,
			Candidates:          candidates,
		}

		switch {
		case len(candidates) == 0:
			result.NoMatch = append(result.NoMatch, entry)

		case len(candidates) == 1 && candidates[0].Confidence == valueobject.ConfidenceHigh:
			best := candidates[0]
			err := uc.reconciliationRepo.CreateLink(ctx, input.UserID, manual.ID, best.BankTransactionID)
			if err != nil {
				if errors.Is(err, domainerror.ErrAlreadyLinked) {
					// Raced with a manual link; treat as consumed
					linked[best.BankTransactionID] = true
					result.RequiresSelection = append(result.RequiresSelection, entry)
					continue
				}
				return nil, fmt.Errorf("failed to auto-link transaction: %w", err)
			}
			linked[manual.ID] = true
			linked[best.BankTransactionID] = true
			result.AutoLinked = append(result.AutoLinked, valueobject.LinkedPair{
				ManualTransactionID: manual.ID,
				BankTransactionID:   best.BankTransactionID,
				Date:                manual.Date,
				Description:         manual.Description,
				Amount:              manual.Amount,
				LinkedAt:            time.Now().UTC(),
			})

		default:
			result.RequiresSelection = append(result.RequiresSelection, entry)
		}
	}

	slog.Info("Reconciliation run completed",
		"userID", input.UserID,
		"autoLinked", len(result.AutoLinked),
		"requiresSelection", len(result.RequiresSelection),
		"noMatch", len(result.NoMatch),
	)

	return &TriggerReconciliationOutput{Result: result}, nil
}
