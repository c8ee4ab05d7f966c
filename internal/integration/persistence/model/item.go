// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// PlaidItemModel represents the plaid_items table in the database.
// Version backs the optimistic-locking scheme on sync-cursor updates.
type PlaidItemModel struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlaidItemID          string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	InstitutionID        string     `gorm:"type:varchar(100)"`
	InstitutionName      string     `gorm:"type:varchar(255)"`
	EncryptedAccessToken string     `gorm:"type:text;not null"`
	SyncCursor           string     `gorm:"type:text"`
	Version              int64      `gorm:"not null;default:1"`
	Status               string     `gorm:"type:varchar(20);not null;default:'active';index"`
	LastSyncedAt         *time.Time `gorm:"type:timestamptz"`
	LastSyncError        string     `gorm:"type:text"`
	CreatedAt            time.Time  `gorm:"not null"`
	UpdatedAt            time.Time  `gorm:"not null"`
}

// TableName returns the table name for the PlaidItemModel.
func (PlaidItemModel) TableName() string {
	return "plaid_items"
}

// ToEntity converts a PlaidItemModel to a domain PlaidItem entity.
func (m *PlaidItemModel) ToEntity() *entity.PlaidItem {
	return &entity.PlaidItem{
		ID:                   m.ID,
		UserID:               m.UserID,
		PlaidItemID:          m.PlaidItemID,
		InstitutionID:        m.InstitutionID,
		InstitutionName:      m.InstitutionName,
		EncryptedAccessToken: m.EncryptedAccessToken,
		SyncCursor:           m.SyncCursor,
		Version:              m.Version,
		Status:               entity.ItemStatus(m.Status),
		LastSyncedAt:         m.LastSyncedAt,
		LastSyncError:        m.LastSyncError,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// PlaidItemFromEntity creates a PlaidItemModel from a domain PlaidItem entity.
func PlaidItemFromEntity(item *entity.PlaidItem) *PlaidItemModel {
	return &PlaidItemModel{
		ID:                   item.ID,
		UserID:               item.UserID,
		PlaidItemID:          item.PlaidItemID,
		InstitutionID:        item.InstitutionID,
		InstitutionName:      item.InstitutionName,
		EncryptedAccessToken: item.EncryptedAccessToken,
		SyncCursor:           item.SyncCursor,
		Version:              item.Version,
		Status:               string(item.Status),
		LastSyncedAt:         item.LastSyncedAt,
		LastSyncError:        item.LastSyncError,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}
