// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// BulkCategorizeTransactionsInput represents the input for bulk transaction categorization.
type BulkCategorizeTransactionsInput struct {
	TransactionIDs []uuid.UUID
	CategoryID     uuid.UUID
	UserID         uuid.UUID
}

// BulkCategorizeTransactionsOutput represents the output of bulk transaction categorization.
type BulkCategorizeTransactionsOutput struct {
	UpdatedCount int64
}

// BulkCategorizeTransactionsUseCase handles bulk transaction categorization logic.
type BulkCategorizeTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	journalRepo     adapter.JournalRepository
}

// NewBulkCategorizeTransactionsUseCase creates a new BulkCategorizeTransactionsUseCase instance.
func NewBulkCategorizeTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	journalRepo adapter.JournalRepository,
) *BulkCategorizeTransactionsUseCase {
	return &BulkCategorizeTransactionsUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		journalRepo:     journalRepo,
	}
}

// Execute performs the bulk transaction categorization.
func (uc *BulkCategorizeTransactionsUseCase) Execute(ctx context.Context, input BulkCategorizeTransactionsInput) (*BulkCategorizeTransactionsOutput, error) {
	// Validate that IDs list is not empty
	if len(input.TransactionIDs) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyTransactionIDs,
			"transaction IDs list cannot be empty",
			domainerror.ErrEmptyTransactionIDs,
		)
	}

	// Validate category exists and belongs to user
	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}

	// Verify category ownership
	if category.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotOwned,
			"category does not belong to user",
			domainerror.ErrCategoryNotOwnedByUser,
		)
	}

	// Verify all transactions exist and belong to the user
	allExist, err := uc.transactionRepo.ExistsAllByIDsAndUser(ctx, input.TransactionIDs, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transactions: %w", err)
	}
	if !allExist {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"one or more transactions not found or not owned by user",
			domainerror.ErrTransactionNotFound,
		)
	}

	// Perform bulk category update (atomic operation)
	updatedCount, err := uc.transactionRepo.BulkUpdateCategory(ctx, input.TransactionIDs, input.CategoryID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk categorize transactions: %w", err)
	}

	// Recategorizing moves each derived journal entry to the new ledger account.
	uc.rebuildJournalEntries(ctx, input.TransactionIDs, category)

	return &BulkCategorizeTransactionsOutput{
		UpdatedCount: updatedCount,
	}, nil
}

// rebuildJournalEntries re-derives the journal entries for the given
// transactions. Failure here does not undo the categorization; the entry is
// rebuilt on the next update.
func (uc *BulkCategorizeTransactionsUseCase) rebuildJournalEntries(ctx context.Context, ids []uuid.UUID, category *entity.Category) {
	for _, id := range ids {
		transaction, err := uc.transactionRepo.FindByID(ctx, id)
		if err != nil {
			slog.Warn("Failed to load transaction for journal rebuild", "transactionID", id, "error", err)
			continue
		}
		if err := uc.journalRepo.Upsert(ctx, entity.DeriveJournalEntry(transaction, category)); err != nil {
			slog.Warn("Failed to rebuild journal entry", "transactionID", id, "error", err)
		}
	}
}
