// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID    *uuid.UUID      `gorm:"type:uuid;index"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	Description  string          `gorm:"type:varchar(255);not null"`
	MerchantName string          `gorm:"type:varchar(255)"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type         string          `gorm:"type:varchar(10);not null;index"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	Notes        string          `gorm:"type:text"`
	Pending      bool            `gorm:"default:false"`
	Source       string          `gorm:"type:varchar(10);not null;default:'manual';index"`
	// Provider transaction ID for Plaid-synced rows. Unique per provider so
	// incremental syncs upsert instead of duplicating.
	PlaidTransactionID string         `gorm:"type:varchar(255);uniqueIndex:idx_transactions_plaid_id,where:plaid_transaction_id <> ''"`
	CreatedAt          time.Time      `gorm:"not null"`
	UpdatedAt          time.Time      `gorm:"not null"`
	DeletedAt          gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
	Account  *AccountModel  `gorm:"foreignKey:AccountID;references:ID"`
	User     *UserModel     `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Transaction{
		ID:                 m.ID,
		UserID:             m.UserID,
		AccountID:          m.AccountID,
		Date:               m.Date,
		Description:        m.Description,
		MerchantName:       m.MerchantName,
		Amount:             m.Amount,
		Type:               entity.TransactionType(m.Type),
		CategoryID:         m.CategoryID,
		Notes:              m.Notes,
		Pending:            m.Pending,
		Source:             entity.TransactionSource(m.Source),
		PlaidTransactionID: m.PlaidTransactionID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}

// ToEntityWithCategory converts a TransactionModel with its Category to a TransactionWithCategory entity.
func (m *TransactionModel) ToEntityWithCategory() *entity.TransactionWithCategory {
	result := &entity.TransactionWithCategory{
		Transaction: m.ToEntity(),
	}

	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}

	return result
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:                 transaction.ID,
		UserID:             transaction.UserID,
		AccountID:          transaction.AccountID,
		Date:               transaction.Date,
		Description:        transaction.Description,
		MerchantName:       transaction.MerchantName,
		Amount:             transaction.Amount,
		Type:               string(transaction.Type),
		CategoryID:         transaction.CategoryID,
		Notes:              transaction.Notes,
		Pending:            transaction.Pending,
		Source:             string(transaction.Source),
		PlaidTransactionID: transaction.PlaidTransactionID,
		CreatedAt:          transaction.CreatedAt,
		UpdatedAt:          transaction.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}
