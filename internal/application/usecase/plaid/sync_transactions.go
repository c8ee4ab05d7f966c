// Package plaid contains use cases for linking and syncing bank accounts.
package plaid

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
)

// SyncTransactionsInput represents the input for an item sync run.
type SyncTransactionsInput struct {
	ItemID uuid.UUID
	UserID uuid.UUID
}

// SyncTransactionsOutput represents the output of an item sync run.
type SyncTransactionsOutput struct {
	Result *entity.SyncResult
}

// SyncTransactionsUseCase pulls transaction changes for one item from the
// aggregator and applies them locally.
//
// Two layers guard against concurrent runs: a distributed lock serializes
// workers up front, and the cursor update uses optimistic locking so that
// even a lock failure (expiry, split brain) cannot persist a stale cursor.
type SyncTransactionsUseCase struct {
	itemRepo         adapter.ItemRepository
	accountRepo      adapter.AccountRepository
	transactionRepo  adapter.TransactionRepository
	categoryRepo     adapter.CategoryRepository
	categoryRuleRepo adapter.CategoryRuleRepository
	journalRepo      adapter.JournalRepository
	userRepo         adapter.UserRepository
	plaidClient      adapter.PlaidClient
	cipher           adapter.SecretCipher
	locker           adapter.SyncLocker
	emailService     adapter.EmailService
	lockTTL          time.Duration
	lockWait         time.Duration
	maxPages         int
}

// NewSyncTransactionsUseCase creates a new SyncTransactionsUseCase instance.
func NewSyncTransactionsUseCase(
	itemRepo adapter.ItemRepository,
	accountRepo adapter.AccountRepository,
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	categoryRuleRepo adapter.CategoryRuleRepository,
	journalRepo adapter.JournalRepository,
	userRepo adapter.UserRepository,
	plaidClient adapter.PlaidClient,
	cipher adapter.SecretCipher,
	locker adapter.SyncLocker,
	emailService adapter.EmailService,
	lockTTL, lockWait time.Duration,
	maxPages int,
) *SyncTransactionsUseCase {
	return &SyncTransactionsUseCase{
		itemRepo:         itemRepo,
		accountRepo:      accountRepo,
		transactionRepo:  transactionRepo,
		categoryRepo:     categoryRepo,
		categoryRuleRepo: categoryRuleRepo,
		journalRepo:      journalRepo,
		userRepo:         userRepo,
		plaidClient:      plaidClient,
		cipher:           cipher,
		locker:           locker,
		emailService:     emailService,
		lockTTL:          lockTTL,
		lockWait:         lockWait,
		maxPages:         maxPages,
	}
}

// Execute performs one sync run for the item.
func (uc *SyncTransactionsUseCase) Execute(ctx context.Context, input SyncTransactionsInput) (*SyncTransactionsOutput, error) {
	// Load and authorize the item
	item, err := uc.itemRepo.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, domainerror.ErrItemNotFound) {
			return nil, domainerror.NewPlaidError(
				domainerror.ErrCodeItemNotFound,
				"bank connection not found",
				domainerror.ErrItemNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find plaid item: %w", err)
	}
	if item.UserID != input.UserID {
		return nil, domainerror.NewPlaidError(
			domainerror.ErrCodeNotAuthorizedItem,
			"not authorized to sync this bank connection",
			domainerror.ErrNotAuthorizedItem,
		)
	}
	if item.Status == entity.ItemStatusRemoved {
		return nil, domainerror.NewPlaidError(
			domainerror.ErrCodeItemNotFound,
			"bank connection was removed",
			domainerror.ErrItemNotFound,
		)
	}

	// Serialize sync runs per item across processes
	lock, err := uc.locker.Acquire(ctx, syncLockKey(item.ID), uc.lockTTL, uc.lockWait)
	if err != nil {
		if errors.Is(err, domainerror.ErrSyncInProgress) {
			return nil, domainerror.NewPlaidError(
				domainerror.ErrCodeSyncInProgress,
				"a sync is already running for this bank connection",
				domainerror.ErrSyncInProgress,
			)
		}
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			slog.Warn("Failed to release sync lock", "itemID", item.ID, "error", err)
		}
	}()

	// Open the stored access token
	accessToken, err := uc.cipher.Decrypt(item.EncryptedAccessToken)
	if err != nil {
		return nil, err
	}

	// Rotate tokens written under an older envelope version
	if uc.cipher.NeedsRotation(item.EncryptedAccessToken) {
		if reencrypted, encErr := uc.cipher.Encrypt(accessToken); encErr == nil {
			if updErr := uc.itemRepo.UpdateEncryptedAccessToken(ctx, item.ID, reencrypted); updErr != nil {
				slog.Warn("Failed to rotate access token encryption", "itemID", item.ID, "error", updErr)
			} else {
				slog.Info("Rotated access token to current envelope version", "itemID", item.ID)
			}
		}
	}

	result, err := uc.runSync(ctx, item, accessToken, lock)
	if err != nil {
		uc.handleSyncFailure(ctx, item, err)
		return nil, err
	}

	// Persist the cursor under optimistic locking. A conflict means another
	// process advanced the cursor despite the lock; the run's work is kept
	// (upserts are idempotent) but the cursor must not go backwards.
	if err := uc.itemRepo.UpdateSyncCursor(ctx, item.ID, result.NextCursor, item.Version); err != nil {
		return nil, err
	}

	// A successful run clears a previous login_error state
	if item.Status == entity.ItemStatusLoginError {
		if err := uc.itemRepo.UpdateStatus(ctx, item.ID, entity.ItemStatusActive, ""); err != nil {
			slog.Warn("Failed to reset item status", "itemID", item.ID, "error", err)
		}
	}

	slog.Info("Sync completed",
		"itemID", item.ID,
		"added", result.Added,
		"modified", result.Modified,
		"removed", result.Removed,
		"pages", result.Pages,
	)

	return &SyncTransactionsOutput{Result: result}, nil
}

// runSync walks the paged sync feed and applies each page.
func (uc *SyncTransactionsUseCase) runSync(
	ctx context.Context,
	item *entity.PlaidItem,
	accessToken string,
	lock adapter.SyncLock,
) (*entity.SyncResult, error) {
	result := &entity.SyncResult{
		ItemID:     item.ID,
		NextCursor: item.SyncCursor,
	}

	// Refresh account names and balances first
	plaidAccounts, err := uc.plaidClient.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	accountIDs := make(map[string]uuid.UUID, len(plaidAccounts))
	for _, pa := range plaidAccounts {
		account := entity.NewPlaidAccount(
			item.UserID,
			item.ID,
			pa.PlaidAccountID,
			pa.Name,
			pa.OfficialName,
			pa.Mask,
			pa.Type,
			pa.Subtype,
			pa.Currency,
			pa.CurrentBalance,
			pa.AvailableBalance,
		)
		if err := uc.accountRepo.UpsertPlaidAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to upsert account: %w", err)
		}
		accountIDs[pa.PlaidAccountID] = account.ID
	}
	result.AccountsSeen = len(plaidAccounts)

	// Load rules once; new transactions get auto-categorized on ingest
	rules, err := uc.categoryRuleRepo.FindActiveByUser(ctx, item.UserID)
	if err != nil {
		slog.Warn("Failed to load category rules for sync", "itemID", item.ID, "error", err)
		rules = nil
	}
	matcher := newRuleMatcher(rules)

	// Categories are loaded once; the derived journal entries post to the
	// ledger account named after the transaction's category.
	categories := make(map[uuid.UUID]*entity.Category)
	if cats, err := uc.categoryRepo.FindByUser(ctx, item.UserID); err != nil {
		slog.Warn("Failed to load categories for sync", "itemID", item.ID, "error", err)
	} else {
		for _, cat := range cats {
			categories[cat.ID] = cat
		}
	}

	cursor := item.SyncCursor
	for {
		if result.Pages >= uc.maxPages {
			// Leave the rest for the next run; cursor already points past
			// everything applied so far.
			slog.Info("Sync page budget reached", "itemID", item.ID, "pages", result.Pages)
			break
		}

		page, err := uc.plaidClient.SyncTransactions(ctx, accessToken, cursor)
		if err != nil {
			return nil, err
		}
		result.Pages++

		for i := range page.Added {
			if err := uc.applyUpsert(ctx, item, accountIDs, categories, &page.Added[i], matcher); err != nil {
				return nil, err
			}
			result.Added++
		}
		for i := range page.Modified {
			if err := uc.applyUpsert(ctx, item, accountIDs, categories, &page.Modified[i], matcher); err != nil {
				return nil, err
			}
			result.Modified++
		}
		for _, plaidTxnID := range page.Removed {
			// The journal entry goes with the transaction it was derived from
			if txn, err := uc.transactionRepo.FindByPlaidID(ctx, item.UserID, plaidTxnID); err == nil {
				if err := uc.journalRepo.DeleteByTransaction(ctx, txn.ID); err != nil {
					slog.Warn("Failed to delete journal entry", "transactionID", txn.ID, "error", err)
				}
			}
			if err := uc.transactionRepo.DeleteByPlaidID(ctx, item.UserID, plaidTxnID); err != nil {
				return nil, fmt.Errorf("failed to remove transaction %s: %w", plaidTxnID, err)
			}
			result.Removed++
		}

		cursor = page.NextCursor
		result.NextCursor = cursor

		if !page.HasMore {
			break
		}

		// Keep the lock alive between pages
		if err := lock.Extend(ctx, uc.lockTTL); err != nil {
			slog.Warn("Failed to extend sync lock", "itemID", item.ID, "error", err)
		}
	}

	result.CompletedAt = time.Now().UTC()
	return result, nil
}

// applyUpsert converts one aggregator transaction, upserts it and re-derives
// its journal entry.
func (uc *SyncTransactionsUseCase) applyUpsert(
	ctx context.Context,
	item *entity.PlaidItem,
	accountIDs map[string]uuid.UUID,
	categories map[uuid.UUID]*entity.Category,
	plaidTxn *adapter.PlaidTransaction,
	matcher *ruleMatcher,
) error {
	accountID, ok := accountIDs[plaidTxn.PlaidAccountID]
	if !ok {
		// Account appeared mid-sync; resolve it from storage
		account, err := uc.accountRepo.FindByPlaidAccountID(ctx, item.UserID, plaidTxn.PlaidAccountID)
		if err != nil {
			return fmt.Errorf("unknown account %s for transaction %s: %w",
				plaidTxn.PlaidAccountID, plaidTxn.PlaidTransactionID, err)
		}
		accountID = account.ID
		accountIDs[plaidTxn.PlaidAccountID] = accountID
	}

	// Plaid reports outflows as positive; the ledger stores them negative.
	transaction := entity.NewPlaidTransaction(
		item.UserID,
		accountID,
		plaidTxn.PlaidTransactionID,
		plaidTxn.Date,
		plaidTxn.Description,
		plaidTxn.MerchantName,
		plaidTxn.Amount.Neg(),
		plaidTxn.Pending,
	)

	// Rule matching only seeds a category for new rows; the upsert keeps the
	// user's assignment on existing ones.
	if categoryID := matcher.match(plaidTxn.Description, plaidTxn.MerchantName); categoryID != nil {
		transaction.CategoryID = categoryID
	}

	if err := uc.transactionRepo.UpsertPlaidTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("failed to upsert transaction %s: %w", plaidTxn.PlaidTransactionID, err)
	}

	// The upsert reports the stored row's identity and category, so the
	// derived journal entry follows the row across repeated syncs. Failure
	// here does not undo the upsert; the entry is rebuilt on the next run.
	var category *entity.Category
	if transaction.CategoryID != nil {
		category = categories[*transaction.CategoryID]
	}
	if err := uc.journalRepo.Upsert(ctx, entity.DeriveJournalEntry(transaction, category)); err != nil {
		slog.Warn("Failed to derive journal entry",
			"transactionID", transaction.ID,
			"error", err,
		)
	}
	return nil
}

// handleSyncFailure records the failure on the item and, for login errors,
// notifies the user that the connection needs re-authentication.
func (uc *SyncTransactionsUseCase) handleSyncFailure(ctx context.Context, item *entity.PlaidItem, syncErr error) {
	if !errors.Is(syncErr, domainerror.ErrItemLoginRequired) {
		if err := uc.itemRepo.UpdateStatus(ctx, item.ID, item.Status, syncErr.Error()); err != nil {
			slog.Warn("Failed to record sync error", "itemID", item.ID, "error", err)
		}
		return
	}

	if err := uc.itemRepo.UpdateStatus(ctx, item.ID, entity.ItemStatusLoginError, syncErr.Error()); err != nil {
		slog.Warn("Failed to mark item login_error", "itemID", item.ID, "error", err)
	}

	// Only notify on the transition into login_error, not on every retry
	if item.Status == entity.ItemStatusLoginError || uc.emailService == nil {
		return
	}

	user, err := uc.userRepo.FindByID(ctx, item.UserID)
	if err != nil {
		slog.Warn("Failed to load user for sync failure email", "itemID", item.ID, "error", err)
		return
	}
	if !user.EmailNotifications {
		return
	}

	err = uc.emailService.QueueSyncFailedEmail(ctx, adapter.QueueSyncFailedInput{
		UserID:          user.ID.String(),
		UserEmail:       user.Email,
		UserName:        user.Name,
		InstitutionName: item.InstitutionName,
		Reason:          "The bank asked us to verify your credentials again.",
	})
	if err != nil {
		slog.Warn("Failed to queue sync failure email", "itemID", item.ID, "error", err)
	}
}

// syncLockKey builds the distributed lock key for an item.
func syncLockKey(itemID uuid.UUID) string {
	return "sync:item:" + itemID.String()
}
