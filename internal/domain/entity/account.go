// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountSource distinguishes Plaid-fed accounts from manually created ones.
type AccountSource string

const (
	AccountSourcePlaid  AccountSource = "plaid"
	AccountSourceManual AccountSource = "manual"
)

// Account represents a bank account tracked by the system. Plaid-fed
// accounts reference the PlaidItem they came from; manual accounts have a
// nil ItemID.
type Account struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	ItemID           *uuid.UUID
	PlaidAccountID   string
	Name             string
	OfficialName     string
	Mask             string
	Type             string // depository, credit, loan, investment
	Subtype          string // checking, savings, credit card, ...
	CurrentBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	Currency         string
	Source           AccountSource
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // Soft-delete support
}

// NewManualAccount creates an Account that is not backed by Plaid.
func NewManualAccount(userID uuid.UUID, name, accountType, subtype, currency string, balance decimal.Decimal) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		Subtype:        subtype,
		CurrentBalance: balance,
		Currency:       currency,
		Source:         AccountSourceManual,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewPlaidAccount creates an Account backed by a Plaid item.
func NewPlaidAccount(
	userID uuid.UUID,
	itemID uuid.UUID,
	plaidAccountID, name, officialName, mask, accountType, subtype, currency string,
	current, available decimal.Decimal,
) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:               uuid.New(),
		UserID:           userID,
		ItemID:           &itemID,
		PlaidAccountID:   plaidAccountID,
		Name:             name,
		OfficialName:     officialName,
		Mask:             mask,
		Type:             accountType,
		Subtype:          subtype,
		CurrentBalance:   current,
		AvailableBalance: available,
		Currency:         currency,
		Source:           AccountSourcePlaid,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
