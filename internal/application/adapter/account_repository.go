// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByUser retrieves all accounts for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// FindByItem retrieves all accounts belonging to a Plaid item.
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*entity.Account, error)

	// FindByPlaidAccountID retrieves an account by its Plaid account ID.
	FindByPlaidAccountID(ctx context.Context, userID uuid.UUID, plaidAccountID string) (*entity.Account, error)

	// Update updates an existing account in the database.
	Update(ctx context.Context, account *entity.Account) error

	// UpsertPlaidAccount inserts a Plaid account or refreshes its name, mask
	// and balances when a row with the same Plaid account ID exists.
	UpsertPlaidAccount(ctx context.Context, account *entity.Account) error

	// Delete soft-deletes an account from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByItem soft-deletes all accounts belonging to a Plaid item.
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error
}
