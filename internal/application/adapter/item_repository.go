// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// ItemRepository defines the interface for Plaid item persistence operations.
type ItemRepository interface {
	// Create creates a new Plaid item in the database.
	Create(ctx context.Context, item *entity.PlaidItem) error

	// FindByID retrieves a Plaid item by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PlaidItem, error)

	// FindByUser retrieves all Plaid items for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.PlaidItem, error)

	// FindByPlaidItemID retrieves an item by the identifier Plaid assigned it.
	FindByPlaidItemID(ctx context.Context, plaidItemID string) (*entity.PlaidItem, error)

	// Update updates an existing Plaid item in the database.
	Update(ctx context.Context, item *entity.PlaidItem) error

	// UpdateSyncCursor persists a new sync cursor for the item using optimistic
	// locking: the update only applies when the stored version still equals
	// expectedVersion, and increments the version on success. Returns
	// ErrItemVersionConflict when the row moved underneath the caller.
	UpdateSyncCursor(ctx context.Context, itemID uuid.UUID, cursor string, expectedVersion int64) error

	// UpdateStatus sets the item status and, for login_error, the message
	// describing the failure.
	UpdateStatus(ctx context.Context, itemID uuid.UUID, status entity.ItemStatus, syncError string) error

	// UpdateEncryptedAccessToken replaces the stored access-token ciphertext.
	// Used when re-encrypting tokens written under an older envelope version.
	UpdateEncryptedAccessToken(ctx context.Context, itemID uuid.UUID, encryptedToken string) error

	// Delete soft-deletes a Plaid item from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
