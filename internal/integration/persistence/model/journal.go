// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// JournalEntryModel represents the journal_entries table in the database.
// One row per transaction, so upserts key on TransactionID.
type JournalEntryModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	Memo          string          `gorm:"type:varchar(255)"`
	DebitAccount  string          `gorm:"type:varchar(100);not null"`
	CreditAccount string          `gorm:"type:varchar(100);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the JournalEntryModel.
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToEntity converts a JournalEntryModel to a domain JournalEntry entity.
func (m *JournalEntryModel) ToEntity() *entity.JournalEntry {
	return &entity.JournalEntry{
		ID:            m.ID,
		UserID:        m.UserID,
		TransactionID: m.TransactionID,
		Date:          m.Date,
		Memo:          m.Memo,
		DebitAccount:  m.DebitAccount,
		CreditAccount: m.CreditAccount,
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
	}
}

// JournalEntryFromEntity creates a JournalEntryModel from a domain JournalEntry entity.
func JournalEntryFromEntity(entry *entity.JournalEntry) *JournalEntryModel {
	return &JournalEntryModel{
		ID:            entry.ID,
		UserID:        entry.UserID,
		TransactionID: entry.TransactionID,
		Date:          entry.Date,
		Memo:          entry.Memo,
		DebitAccount:  entry.DebitAccount,
		CreditAccount: entry.CreditAccount,
		Amount:        entry.Amount,
		CreatedAt:     entry.CreatedAt,
	}
}
