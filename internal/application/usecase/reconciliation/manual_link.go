package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// ManualLinkInput represents the input for linking a manual transaction to a
// bank-fed one.
type ManualLinkInput struct {
	UserID              uuid.UUID
	ManualTransactionID uuid.UUID
	BankTransactionID   uuid.UUID
	Force               bool // Allow linking despite an amount mismatch
}

// ManualLinkOutput represents the result of the manual link.
type ManualLinkOutput struct {
	ManualTransactionID uuid.UUID
	BankTransactionID   uuid.UUID
	AmountDifference    decimal.Decimal
	HasMismatch         bool
}

// ManualLinkUseCase links one manual transaction to one bank transaction.
type ManualLinkUseCase struct {
	transactionRepo    adapter.TransactionRepository
	reconciliationRepo adapter.ReconciliationRepository
	config             valueobject.MatchingConfig
}

// NewManualLinkUseCase creates a new ManualLinkUseCase instance.
func NewManualLinkUseCase(
	transactionRepo adapter.TransactionRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *ManualLinkUseCase {
	return &ManualLinkUseCase{
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		config:             valueobject.DefaultMatchingConfig(),
	}
}

// Execute performs the manual linking operation.
func (uc *ManualLinkUseCase) Execute(ctx context.Context, input ManualLinkInput) (*ManualLinkOutput, error) {
	manual, err := uc.loadOwnedTransaction(ctx, input.ManualTransactionID, input.UserID)
	if err != nil {
		return nil, err
	}
	bank, err := uc.loadOwnedTransaction(ctx, input.BankTransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	// A link always pairs a manual entry with a bank-fed one
	if manual.Source != entity.TransactionSourceManual || bank.Source != entity.TransactionSourcePlaid {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSameSourceLink,
			"a link pairs a manual transaction with a bank-fed one",
			domainerror.ErrSameSourceLink,
		)
	}

	for _, id := range []uuid.UUID{manual.ID, bank.ID} {
		isLinked, err := uc.reconciliationRepo.IsLinked(ctx, id)
		if err != nil {
			return nil, err
		}
		if isLinked {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeAlreadyLinked,
				"transaction is already reconciled",
				domainerror.ErrAlreadyLinked,
			)
		}
	}

	diff := manual.Amount.Sub(bank.Amount).Abs()
	hasMismatch := !uc.config.AmountsMatch(manual.Amount, bank.Amount)
	if hasMismatch && !input.Force {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeAmountMismatch,
			"transaction amounts differ, use force to link anyway",
			domainerror.ErrReconciliationAmountMismatch,
		)
	}

	err = uc.reconciliationRepo.CreateLink(ctx, input.UserID, manual.ID, bank.ID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAlreadyLinked) {
			// A concurrent link won the race on the unique index
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeAlreadyLinked,
				"transaction is already reconciled",
				domainerror.ErrAlreadyLinked,
			)
		}
		return nil, fmt.Errorf("failed to create reconciliation link: %w", err)
	}

	return &ManualLinkOutput{
		ManualTransactionID: manual.ID,
		BankTransactionID:   bank.ID,
		AmountDifference:    diff,
		HasMismatch:         hasMismatch,
	}, nil
}

// loadOwnedTransaction fetches a transaction and checks ownership.
func (uc *ManualLinkUseCase) loadOwnedTransaction(ctx context.Context, id, userID uuid.UUID) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if transaction.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to access this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}
	return transaction, nil
}
