// Package plaid contains use cases for linking and syncing bank accounts.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// RemoveItemInput represents the input for disconnecting a bank connection.
type RemoveItemInput struct {
	ItemID uuid.UUID
	UserID uuid.UUID
}

// RemoveItemOutput represents the output of disconnecting a bank connection.
type RemoveItemOutput struct {
	Success bool
}

// RemoveItemUseCase revokes the access token at the aggregator and retires
// the item and its accounts locally. Synced transactions are kept; they are
// part of the user's history.
type RemoveItemUseCase struct {
	itemRepo    adapter.ItemRepository
	accountRepo adapter.AccountRepository
	plaidClient adapter.PlaidClient
	cipher      adapter.SecretCipher
}

// NewRemoveItemUseCase creates a new RemoveItemUseCase instance.
func NewRemoveItemUseCase(
	itemRepo adapter.ItemRepository,
	accountRepo adapter.AccountRepository,
	plaidClient adapter.PlaidClient,
	cipher adapter.SecretCipher,
) *RemoveItemUseCase {
	return &RemoveItemUseCase{
		itemRepo:    itemRepo,
		accountRepo: accountRepo,
		plaidClient: plaidClient,
		cipher:      cipher,
	}
}

// Execute performs the item removal.
func (uc *RemoveItemUseCase) Execute(ctx context.Context, input RemoveItemInput) (*RemoveItemOutput, error) {
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
			"not authorized to remove this bank connection",
			domainerror.ErrNotAuthorizedItem,
		)
	}

	// Revoke the token at the aggregator. Failure is tolerated: the token
	// may already be invalid, and local removal must still proceed.
	accessToken, err := uc.cipher.Decrypt(item.EncryptedAccessToken)
	if err != nil {
		slog.Warn("Could not decrypt token during removal; skipping revocation",
			"itemID", item.ID,
			"error", err,
		)
	} else if err := uc.plaidClient.RemoveItem(ctx, accessToken); err != nil {
		slog.Warn("Failed to revoke access token at aggregator",
			"itemID", item.ID,
			"error", err,
		)
	}

	// Retire local state
	if err := uc.accountRepo.DeleteByItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to remove item accounts: %w", err)
	}
	if err := uc.itemRepo.UpdateStatus(ctx, item.ID, entity.ItemStatusRemoved, ""); err != nil {
		return nil, fmt.Errorf("failed to mark item removed: %w", err)
	}

	slog.Info("Bank connection removed", "userID", input.UserID, "itemID", item.ID)

	return &RemoveItemOutput{
		Success: true,
	}, nil
}
