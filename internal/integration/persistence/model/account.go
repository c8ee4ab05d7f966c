// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           *uuid.UUID      `gorm:"type:uuid;index"`
	PlaidAccountID   string          `gorm:"type:varchar(255);uniqueIndex:idx_accounts_plaid_id,where:plaid_account_id <> ''"`
	Name             string          `gorm:"type:varchar(255);not null"`
	OfficialName     string          `gorm:"type:varchar(255)"`
	Mask             string          `gorm:"type:varchar(10)"`
	Type             string          `gorm:"type:varchar(20);not null"`
	Subtype          string          `gorm:"type:varchar(50)"`
	CurrentBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AvailableBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency         string          `gorm:"type:varchar(3);default:'USD'"`
	Source           string          `gorm:"type:varchar(10);not null;default:'manual'"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Item *PlaidItemModel `gorm:"foreignKey:ItemID;references:ID"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Account{
		ID:               m.ID,
		UserID:           m.UserID,
		ItemID:           m.ItemID,
		PlaidAccountID:   m.PlaidAccountID,
		Name:             m.Name,
		OfficialName:     m.OfficialName,
		Mask:             m.Mask,
		Type:             m.Type,
		Subtype:          m.Subtype,
		CurrentBalance:   m.CurrentBalance,
		AvailableBalance: m.AvailableBalance,
		Currency:         m.Currency,
		Source:           entity.AccountSource(m.Source),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	var deletedAt gorm.DeletedAt
	if account.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *account.DeletedAt, Valid: true}
	}

	return &AccountModel{
		ID:               account.ID,
		UserID:           account.UserID,
		ItemID:           account.ItemID,
		PlaidAccountID:   account.PlaidAccountID,
		Name:             account.Name,
		OfficialName:     account.OfficialName,
		Mask:             account.Mask,
		Type:             account.Type,
		Subtype:          account.Subtype,
		CurrentBalance:   account.CurrentBalance,
		AvailableBalance: account.AvailableBalance,
		Currency:         account.Currency,
		Source:           string(account.Source),
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}
