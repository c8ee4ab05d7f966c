// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PlaidAccount is an account as reported by the bank aggregator.
type PlaidAccount struct {
	PlaidAccountID   string
	Name             string
	OfficialName     string
	Mask             string
	Type             string
	Subtype          string
	CurrentBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	Currency         string
}

// PlaidTransaction is a transaction as reported by the bank aggregator.
type PlaidTransaction struct {
	PlaidTransactionID string
	PlaidAccountID     string
	Date               time.Time
	Description        string
	MerchantName       string
	Amount             decimal.Decimal // Plaid sign convention: positive = money out
	Currency           string
	Pending            bool
	CategoryHint       string // Aggregator's own category, used as a hint only
}

// SyncPage is one page of the transactions/sync response.
type SyncPage struct {
	Added      []PlaidTransaction
	Modified   []PlaidTransaction
	Removed    []string // Plaid transaction IDs
	NextCursor string
	HasMore    bool
}

// ExchangeResult is the outcome of a public token exchange.
type ExchangeResult struct {
	AccessToken string
	ItemID      string
}

// Institution describes the financial institution behind an item.
type Institution struct {
	ID   string
	Name string
}

// PlaidClient defines the interface for the bank aggregator API.
type PlaidClient interface {
	// CreateLinkToken creates a short-lived token that initializes the Link
	// flow in the client application.
	CreateLinkToken(ctx context.Context, userID string) (string, error)

	// ExchangePublicToken exchanges the public token produced by Link for a
	// long-lived access token and the item ID.
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)

	// GetItemInstitution returns the institution the item belongs to.
	GetItemInstitution(ctx context.Context, accessToken string) (*Institution, error)

	// GetAccounts retrieves the accounts available under the access token.
	GetAccounts(ctx context.Context, accessToken string) ([]PlaidAccount, error)

	// SyncTransactions fetches one page of transaction changes since cursor.
	// An empty cursor starts from the beginning of the item's history.
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncPage, error)

	// RemoveItem revokes the access token at the aggregator.
	RemoveItem(ctx context.Context, accessToken string) error
}
