// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
)

// itemRepository implements the adapter.ItemRepository interface.
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new Plaid item repository instance.
func NewItemRepository(db *gorm.DB) adapter.ItemRepository {
	return &itemRepository{
		db: db,
	}
}

// Create creates a new Plaid item in the database.
func (r *itemRepository) Create(ctx context.Context, item *entity.PlaidItem) error {
	itemModel := model.PlaidItemFromEntity(item)
	result := r.db.WithContext(ctx).Create(itemModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a Plaid item by its ID.
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PlaidItem, error) {
	var itemModel model.PlaidItemModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&itemModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrItemNotFound
		}
		return nil, result.Error
	}
	return itemModel.ToEntity(), nil
}

// FindByUser retrieves all Plaid items for a given user.
func (r *itemRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.PlaidItem, error) {
	var itemModels []model.PlaidItemModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&itemModels)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.PlaidItem, len(itemModels))
	for i, im := range itemModels {
		items[i] = im.ToEntity()
	}
	return items, nil
}

// FindByPlaidItemID retrieves an item by the identifier Plaid assigned it.
func (r *itemRepository) FindByPlaidItemID(ctx context.Context, plaidItemID string) (*entity.PlaidItem, error) {
	var itemModel model.PlaidItemModel
	result := r.db.WithContext(ctx).Where("plaid_item_id = ?", plaidItemID).First(&itemModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrItemNotFound
		}
		return nil, result.Error
	}
	return itemModel.ToEntity(), nil
}

// Update updates an existing Plaid item in the database.
func (r *itemRepository) Update(ctx context.Context, item *entity.PlaidItem) error {
	itemModel := model.PlaidItemFromEntity(item)
	result := r.db.WithContext(ctx).Save(itemModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdateSyncCursor persists a new sync cursor using optimistic locking. The
// WHERE clause carries the version the caller read; zero affected rows means
// another process advanced the cursor first and the caller must re-read.
func (r *itemRepository) UpdateSyncCursor(ctx context.Context, itemID uuid.UUID, cursor string, expectedVersion int64) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.PlaidItemModel{}).
		Where("id = ? AND version = ?", itemID, expectedVersion).
		Updates(map[string]interface{}{
			"sync_cursor":    cursor,
			"version":        expectedVersion + 1,
			"last_synced_at": now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.NewPlaidError(
			domainerror.ErrCodeItemVersionConflict,
			domainerror.ErrItemVersionConflict.Error(),
			domainerror.ErrItemVersionConflict,
		)
	}
	return nil
}

// UpdateStatus sets the item status and the last sync error message.
func (r *itemRepository) UpdateStatus(ctx context.Context, itemID uuid.UUID, status entity.ItemStatus, syncError string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PlaidItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"status":          string(status),
			"last_sync_error": syncError,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrItemNotFound
	}
	return nil
}

// UpdateEncryptedAccessToken replaces the stored access-token ciphertext.
func (r *itemRepository) UpdateEncryptedAccessToken(ctx context.Context, itemID uuid.UUID, encryptedToken string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PlaidItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"encrypted_access_token": encryptedToken,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrItemNotFound
	}
	return nil
}

// Delete removes a Plaid item from the database.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.PlaidItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
