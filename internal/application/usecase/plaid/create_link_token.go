// Package plaid contains use cases for linking and syncing bank accounts.
package plaid

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
)

// CreateLinkTokenInput represents the input for creating a Link token.
type CreateLinkTokenInput struct {
	UserID uuid.UUID
}

// CreateLinkTokenOutput represents the output of creating a Link token.
type CreateLinkTokenOutput struct {
	LinkToken string
}

// CreateLinkTokenUseCase produces the short-lived token that initializes the
// Link flow in the client application.
type CreateLinkTokenUseCase struct {
	plaidClient adapter.PlaidClient
}

// NewCreateLinkTokenUseCase creates a new CreateLinkTokenUseCase instance.
func NewCreateLinkTokenUseCase(plaidClient adapter.PlaidClient) *CreateLinkTokenUseCase {
	return &CreateLinkTokenUseCase{
		plaidClient: plaidClient,
	}
}

// Execute creates a Link token for the user.
func (uc *CreateLinkTokenUseCase) Execute(ctx context.Context, input CreateLinkTokenInput) (*CreateLinkTokenOutput, error) {
	linkToken, err := uc.plaidClient.CreateLinkToken(ctx, input.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create link token: %w", err)
	}

	return &CreateLinkTokenOutput{
		LinkToken: linkToken,
	}, nil
}
