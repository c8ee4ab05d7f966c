// Package account contains account-related use cases.
package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

const (
	// MaxAccountNameLength is the maximum allowed length for account names.
	MaxAccountNameLength = 100
	// DefaultCurrency is used when the caller does not specify one.
	DefaultCurrency = "USD"
)

// validAccountTypes mirrors the account types Plaid reports, so manual
// accounts share the same vocabulary as linked ones.
var validAccountTypes = map[string]bool{
	"depository": true,
	"credit":     true,
	"loan":       true,
	"investment": true,
	"other":      true,
}

// CreateAccountInput represents the input for manual account creation.
type CreateAccountInput struct {
	UserID   uuid.UUID
	Name     string
	Type     string
	Subtype  string
	Currency string
	Balance  decimal.Decimal
}

// CreateAccountOutput represents the output of account creation.
type CreateAccountOutput struct {
	Account *entity.Account
}

// CreateAccountUseCase handles manual account creation logic.
type CreateAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewCreateAccountUseCase creates a new CreateAccountUseCase instance.
func NewCreateAccountUseCase(accountRepo adapter.AccountRepository) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accountRepo: accountRepo,
	}
}

// Execute performs the manual account creation.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
	// Validate name
	if input.Name == "" {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountNameRequired,
			"account name is required",
			domainerror.ErrAccountNameRequired,
		)
	}
	if len(input.Name) > MaxAccountNameLength {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountNameRequired,
			fmt.Sprintf("account name must not exceed %d characters", MaxAccountNameLength),
			domainerror.ErrAccountNameRequired,
		)
	}

	// Validate type
	if !validAccountTypes[input.Type] {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountType,
			"account type must be one of: depository, credit, loan, investment, other",
			domainerror.ErrInvalidAccountType,
		)
	}

	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	// Create account entity
	account := entity.NewManualAccount(
		input.UserID,
		input.Name,
		input.Type,
		input.Subtype,
		currency,
		input.Balance,
	)

	// Save account to database
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &CreateAccountOutput{
		Account: account,
	}, nil
}
