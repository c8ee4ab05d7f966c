// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationLinkModel represents the reconciliation_links table. Each row
// pairs a manually entered transaction with the bank-fed one it matches.
// Unique indexes on both sides enforce at most one link per transaction.
type ReconciliationLinkModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index"`
	ManualTransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	BankTransactionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the ReconciliationLinkModel.
func (ReconciliationLinkModel) TableName() string {
	return "reconciliation_links"
}
