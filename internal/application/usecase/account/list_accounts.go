// Package account contains account-related use cases.
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// ListAccountsInput represents the input for listing accounts.
type ListAccountsInput struct {
	UserID uuid.UUID
}

// AccountOutput represents a single account in the output.
type AccountOutput struct {
	ID               uuid.UUID
	ItemID           *uuid.UUID
	Name             string
	OfficialName     string
	Mask             string
	Type             string
	Subtype          string
	CurrentBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	Currency         string
	Source           entity.AccountSource
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ListAccountsOutput represents the output of listing accounts.
type ListAccountsOutput struct {
	Accounts []*AccountOutput
}

// ListAccountsUseCase handles listing accounts logic.
type ListAccountsUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewListAccountsUseCase creates a new ListAccountsUseCase instance.
func NewListAccountsUseCase(accountRepo adapter.AccountRepository) *ListAccountsUseCase {
	return &ListAccountsUseCase{
		accountRepo: accountRepo,
	}
}

// accountToOutput converts an account entity to the output shape.
func accountToOutput(account *entity.Account) *AccountOutput {
	return &AccountOutput{
		ID:               account.ID,
		ItemID:           account.ItemID,
		Name:             account.Name,
		OfficialName:     account.OfficialName,
		Mask:             account.Mask,
		Type:             account.Type,
		Subtype:          account.Subtype,
		CurrentBalance:   account.CurrentBalance,
		AvailableBalance: account.AvailableBalance,
		Currency:         account.Currency,
		Source:           account.Source,
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
	}
}

// Execute performs the account listing.
func (uc *ListAccountsUseCase) Execute(ctx context.Context, input ListAccountsInput) (*ListAccountsOutput, error) {
	accounts, err := uc.accountRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	output := &ListAccountsOutput{
		Accounts: make([]*AccountOutput, len(accounts)),
	}
	for i, account := range accounts {
		output.Accounts[i] = accountToOutput(account)
	}

	return output, nil
}
