// Package account contains account-related use cases.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// UpdateAccountInput represents the input for account update.
type UpdateAccountInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
	Name      *string          // Optional
	Balance   *decimal.Decimal // Optional, manual accounts only
}

// UpdateAccountOutput represents the output of account update.
type UpdateAccountOutput struct {
	Account *entity.Account
}

// UpdateAccountUseCase handles account update logic.
type UpdateAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewUpdateAccountUseCase creates a new UpdateAccountUseCase instance.
func NewUpdateAccountUseCase(accountRepo adapter.AccountRepository) *UpdateAccountUseCase {
	return &UpdateAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the account update.
func (uc *UpdateAccountUseCase) Execute(ctx context.Context, input UpdateAccountInput) (*UpdateAccountOutput, error) {
	// Find the existing account
	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, domainerror.NewAccountError(
				domainerror.ErrCodeAccountNotFound,
				"account not found",
				domainerror.ErrAccountNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// Check if user is authorized to update this account
	if account.UserID != input.UserID {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeNotAuthorizedAccount,
			"not authorized to update this account",
			domainerror.ErrNotAuthorizedAccount,
		)
	}

	// Update name if provided
	if input.Name != nil {
		if *input.Name == "" || len(*input.Name) > MaxAccountNameLength {
			return nil, domainerror.NewAccountError(
				domainerror.ErrCodeAccountNameRequired,
				fmt.Sprintf("account name must be between 1 and %d characters", MaxAccountNameLength),
				domainerror.ErrAccountNameRequired,
			)
		}
		account.Name = *input.Name
	}

	// Balances of Plaid-fed accounts are owned by the sync pipeline.
	if input.Balance != nil {
		if account.Source == entity.AccountSourcePlaid {
			return nil, domainerror.NewAccountError(
				domainerror.ErrCodeNotAuthorizedAccount,
				"balances of linked accounts are managed by sync",
				domainerror.ErrNotAuthorizedAccount,
			)
		}
		account.CurrentBalance = *input.Balance
	}

	// Update timestamp
	account.UpdatedAt = time.Now().UTC()

	// Save changes
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &UpdateAccountOutput{
		Account: account,
	}, nil
}
