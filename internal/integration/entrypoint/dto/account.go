// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/isakbosman/manna/internal/application/usecase/account"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// CreateAccountRequest represents the request body for manual account creation.
type CreateAccountRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Type     string  `json:"type" binding:"required"`
	Subtype  string  `json:"subtype,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Balance  float64 `json:"balance"`
}

// UpdateAccountRequest represents the request body for account update.
type UpdateAccountRequest struct {
	Name    *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Balance *float64 `json:"balance,omitempty"`
}

// AccountResponse represents a single account in API responses.
type AccountResponse struct {
	ID               string    `json:"id"`
	ItemID           *string   `json:"item_id,omitempty"`
	Name             string    `json:"name"`
	OfficialName     string    `json:"official_name,omitempty"`
	Mask             string    `json:"mask,omitempty"`
	Type             string    `json:"type"`
	Subtype          string    `json:"subtype,omitempty"`
	CurrentBalance   string    `json:"current_balance"`
	AvailableBalance string    `json:"available_balance"`
	Currency         string    `json:"currency"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AccountListResponse represents the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain Account entity to an AccountResponse DTO.
func ToAccountResponse(acc *entity.Account) AccountResponse {
	response := AccountResponse{
		ID:               acc.ID.String(),
		Name:             acc.Name,
		OfficialName:     acc.OfficialName,
		Mask:             acc.Mask,
		Type:             acc.Type,
		Subtype:          acc.Subtype,
		CurrentBalance:   acc.CurrentBalance.String(),
		AvailableBalance: acc.AvailableBalance.String(),
		Currency:         acc.Currency,
		Source:           string(acc.Source),
		CreatedAt:        acc.CreatedAt,
		UpdatedAt:        acc.UpdatedAt,
	}

	if acc.ItemID != nil {
		itemIDStr := acc.ItemID.String()
		response.ItemID = &itemIDStr
	}

	return response
}

// ToAccountResponseFromOutput converts an AccountOutput to an AccountResponse DTO.
func ToAccountResponseFromOutput(output *account.AccountOutput) AccountResponse {
	response := AccountResponse{
		ID:               output.ID.String(),
		Name:             output.Name,
		OfficialName:     output.OfficialName,
		Mask:             output.Mask,
		Type:             output.Type,
		Subtype:          output.Subtype,
		CurrentBalance:   output.CurrentBalance.String(),
		AvailableBalance: output.AvailableBalance.String(),
		Currency:         output.Currency,
		Source:           string(output.Source),
		CreatedAt:        output.CreatedAt,
		UpdatedAt:        output.UpdatedAt,
	}

	if output.ItemID != nil {
		itemIDStr := output.ItemID.String()
		response.ItemID = &itemIDStr
	}

	return response
}

// ToAccountListResponse converts a list of AccountOutput to AccountListResponse.
func ToAccountListResponse(outputs []*account.AccountOutput) AccountListResponse {
	accounts := make([]AccountResponse, len(outputs))
	for i, output := range outputs {
		accounts[i] = ToAccountResponseFromOutput(output)
	}
	return AccountListResponse{
		Accounts: accounts,
	}
}
