// Package plaid contains use cases for linking and syncing bank accounts.
package plaid

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// ListItemsInput represents the input for listing linked items.
type ListItemsInput struct {
	UserID uuid.UUID
}

// ItemOutput represents a linked bank connection in the output. The
// encrypted access token deliberately never appears here.
type ItemOutput struct {
	ID              uuid.UUID
	InstitutionID   string
	InstitutionName string
	Status          entity.ItemStatus
	LastSyncedAt    *time.Time
	LastSyncError   string
	CreatedAt       time.Time
}

// ListItemsOutput represents the output of listing linked items.
type ListItemsOutput struct {
	Items []*ItemOutput
}

// ListItemsUseCase handles listing the user's linked bank connections.
type ListItemsUseCase struct {
	itemRepo adapter.ItemRepository
}

// NewListItemsUseCase creates a new ListItemsUseCase instance.
func NewListItemsUseCase(itemRepo adapter.ItemRepository) *ListItemsUseCase {
	return &ListItemsUseCase{
		itemRepo: itemRepo,
	}
}

// itemToOutput converts an item entity to the output shape.
func itemToOutput(item *entity.PlaidItem) *ItemOutput {
	return &ItemOutput{
		ID:              item.ID,
		InstitutionID:   item.InstitutionID,
		InstitutionName: item.InstitutionName,
		Status:          item.Status,
		LastSyncedAt:    item.LastSyncedAt,
		LastSyncError:   item.LastSyncError,
		CreatedAt:       item.CreatedAt,
	}
}

// Execute performs the item listing.
func (uc *ListItemsUseCase) Execute(ctx context.Context, input ListItemsInput) (*ListItemsOutput, error) {
	items, err := uc.itemRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	output := &ListItemsOutput{
		Items: make([]*ItemOutput, 0, len(items)),
	}
	for _, item := range items {
		if item.Status == entity.ItemStatusRemoved {
			continue
		}
		output.Items = append(output.Items, itemToOutput(item))
	}

	return output, nil
}
