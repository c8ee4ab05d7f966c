// Package plaid contains use cases for linking and syncing bank accounts.
package plaid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// ExchangePublicTokenInput represents the input for the public token exchange.
type ExchangePublicTokenInput struct {
	UserID      uuid.UUID
	PublicToken string
}

// ExchangePublicTokenOutput represents the output of the public token exchange.
type ExchangePublicTokenOutput struct {
	Item     *ItemOutput
	Accounts []*LinkedAccountOutput
}

// LinkedAccountOutput describes an account discovered during linking.
type LinkedAccountOutput struct {
	ID             uuid.UUID
	PlaidAccountID string
	Name           string
	Mask           string
	Type           string
	Subtype        string
}

// ExchangePublicTokenUseCase handles the Link completion flow: it trades the
// public token for an access token, encrypts the token at rest, and imports
// the item's accounts.
type ExchangePublicTokenUseCase struct {
	plaidClient adapter.PlaidClient
	itemRepo    adapter.ItemRepository
	accountRepo adapter.AccountRepository
	cipher      adapter.SecretCipher
}

// NewExchangePublicTokenUseCase creates a new ExchangePublicTokenUseCase instance.
func NewExchangePublicTokenUseCase(
	plaidClient adapter.PlaidClient,
	itemRepo adapter.ItemRepository,
	accountRepo adapter.AccountRepository,
	cipher adapter.SecretCipher,
) *ExchangePublicTokenUseCase {
	return &ExchangePublicTokenUseCase{
		plaidClient: plaidClient,
		itemRepo:    itemRepo,
		accountRepo: accountRepo,
		cipher:      cipher,
	}
}

// Execute performs the public token exchange.
func (uc *ExchangePublicTokenUseCase) Execute(ctx context.Context, input ExchangePublicTokenInput) (*ExchangePublicTokenOutput, error) {
	// Trade the public token for a long-lived access token
	exchange, err := uc.plaidClient.ExchangePublicToken(ctx, input.PublicToken)
	if err != nil {
		return nil, err
	}

	// Resolve the institution behind the item
	institution, err := uc.plaidClient.GetItemInstitution(ctx, exchange.AccessToken)
	if err != nil {
		// Linking proceeds without a display name
		slog.Warn("Failed to resolve institution during linking", "error", err)
		institution = &adapter.Institution{}
	}

	// The plaintext access token is never persisted
	encryptedToken, err := uc.cipher.Encrypt(exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	item := entity.NewPlaidItem(
		input.UserID,
		exchange.ItemID,
		institution.ID,
		institution.Name,
		encryptedToken,
	)

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create plaid item: %w", err)
	}

	// Import the item's accounts
	plaidAccounts, err := uc.plaidClient.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	linked := make([]*LinkedAccountOutput, 0, len(plaidAccounts))
	for _, pa := range plaidAccounts {
		account := entity.NewPlaidAccount(
			input.UserID,
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
			return nil, fmt.Errorf("failed to import account: %w", err)
		}
		linked = append(linked, &LinkedAccountOutput{
			ID:             account.ID,
			PlaidAccountID: account.PlaidAccountID,
			Name:           account.Name,
			Mask:           account.Mask,
			Type:           account.Type,
			Subtype:        account.Subtype,
		})
	}

	slog.Info("Bank connection linked",
		"userID", input.UserID,
		"itemID", item.ID,
		"institution", institution.Name,
		"accounts", len(linked),
	)

	return &ExchangePublicTokenOutput{
		Item:     itemToOutput(item),
		Accounts: linked,
	}, nil
}
