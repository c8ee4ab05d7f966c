// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/isakbosman/manna/internal/application/usecase/plaid"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// ExchangePublicTokenRequest represents the request body for completing the
// Link flow.
type ExchangePublicTokenRequest struct {
	PublicToken string `json:"public_token" binding:"required"`
}

// LinkTokenResponse represents the response for creating a Link token.
type LinkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

// ItemResponse represents a linked bank connection in API responses.
type ItemResponse struct {
	ID              string     `json:"id"`
	InstitutionID   string     `json:"institution_id"`
	InstitutionName string     `json:"institution_name"`
	Status          string     `json:"status"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	LastSyncError   string     `json:"last_sync_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ItemListResponse represents the response for listing linked items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// LinkedAccountResponse describes an account discovered during linking.
type LinkedAccountResponse struct {
	ID             string `json:"id"`
	PlaidAccountID string `json:"plaid_account_id"`
	Name           string `json:"name"`
	Mask           string `json:"mask,omitempty"`
	Type           string `json:"type"`
	Subtype        string `json:"subtype,omitempty"`
}

// ExchangePublicTokenResponse represents the response for the token exchange.
type ExchangePublicTokenResponse struct {
	Item     ItemResponse            `json:"item"`
	Accounts []LinkedAccountResponse `json:"accounts"`
}

// SyncResultResponse represents the outcome of one item sync run.
type SyncResultResponse struct {
	ItemID       string    `json:"item_id"`
	Added        int       `json:"added"`
	Modified     int       `json:"modified"`
	Removed      int       `json:"removed"`
	Pages        int       `json:"pages"`
	AccountsSeen int       `json:"accounts_seen"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ToItemResponse converts an ItemOutput to an ItemResponse DTO.
func ToItemResponse(output *plaid.ItemOutput) ItemResponse {
	return ItemResponse{
		ID:              output.ID.String(),
		InstitutionID:   output.InstitutionID,
		InstitutionName: output.InstitutionName,
		Status:          string(output.Status),
		LastSyncedAt:    output.LastSyncedAt,
		LastSyncError:   output.LastSyncError,
		CreatedAt:       output.CreatedAt,
	}
}

// ToItemListResponse converts a list of ItemOutput to ItemListResponse.
func ToItemListResponse(outputs []*plaid.ItemOutput) ItemListResponse {
	items := make([]ItemResponse, len(outputs))
	for i, output := range outputs {
		items[i] = ToItemResponse(output)
	}
	return ItemListResponse{
		Items: items,
	}
}

// ToExchangePublicTokenResponse converts the exchange output to its response DTO.
func ToExchangePublicTokenResponse(output *plaid.ExchangePublicTokenOutput) ExchangePublicTokenResponse {
	accounts := make([]LinkedAccountResponse, len(output.Accounts))
	for i, acc := range output.Accounts {
		accounts[i] = LinkedAccountResponse{
			ID:             acc.ID.String(),
			PlaidAccountID: acc.PlaidAccountID,
			Name:           acc.Name,
			Mask:           acc.Mask,
			Type:           acc.Type,
			Subtype:        acc.Subtype,
		}
	}
	return ExchangePublicTokenResponse{
		Item:     ToItemResponse(output.Item),
		Accounts: accounts,
	}
}

// ToSyncResultResponse converts a SyncResult entity to its response DTO.
func ToSyncResultResponse(result *entity.SyncResult) SyncResultResponse {
	return SyncResultResponse{
		ItemID:       result.ItemID.String(),
		Added:        result.Added,
		Modified:     result.Modified,
		Removed:      result.Removed,
		Pages:        result.Pages,
		AccountsSeen: result.AccountsSeen,
		CompletedAt:  result.CompletedAt,
	}
}
