// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus represents the lifecycle state of a linked Plaid item.
type ItemStatus string

const (
	ItemStatusActive     ItemStatus = "active"
	ItemStatusLoginError ItemStatus = "login_error"
	ItemStatusRemoved    ItemStatus = "removed"
)

// PlaidItem represents a linked Plaid item (one institution login).
// EncryptedAccessToken holds the envelope-encrypted Plaid access token;
// the plaintext token never leaves the exchange/sync use cases.
//
// Version is a monotonically incremented optimistic-locking counter. Any
// update that advances SyncCursor must carry the version it read; a stale
// version means another process synced concurrently and the update is
// rejected.
type PlaidItem struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	PlaidItemID          string // Plaid's item_id
	InstitutionID        string
	InstitutionName      string
	EncryptedAccessToken string
	SyncCursor           string
	Version              int64
	Status               ItemStatus
	LastSyncedAt         *time.Time
	LastSyncError        string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewPlaidItem creates a new PlaidItem entity.
func NewPlaidItem(userID uuid.UUID, plaidItemID, institutionID, institutionName, encryptedAccessToken string) *PlaidItem {
	now := time.Now().UTC()
	return &PlaidItem{
		ID:                   uuid.New(),
		UserID:               userID,
		PlaidItemID:          plaidItemID,
		InstitutionID:        institutionID,
		InstitutionName:      institutionName,
		EncryptedAccessToken: encryptedAccessToken,
		Version:              1,
		Status:               ItemStatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// SyncResult summarizes one transactions-sync run for an item.
type SyncResult struct {
	ItemID       uuid.UUID
	Added        int
	Modified     int
	Removed      int
	Pages        int
	NextCursor   string
	AccountsSeen int
	CompletedAt  time.Time
}
