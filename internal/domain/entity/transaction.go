// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// TransactionSource records where a transaction came from.
type TransactionSource string

const (
	TransactionSourceManual TransactionSource = "manual"
	TransactionSourcePlaid  TransactionSource = "plaid"
)

// Transaction represents a financial transaction. Plaid-synced rows carry
// the provider's transaction ID so incremental syncs can modify or remove
// them idempotently.
type Transaction struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	AccountID          *uuid.UUID
	Date               time.Time
	Description        string
	MerchantName       string
	Amount             decimal.Decimal // Negative for expenses, positive for income
	Type               TransactionType
	CategoryID         *uuid.UUID // Optional, can be uncategorized
	Notes              string
	Pending            bool
	Source             TransactionSource
	PlaidTransactionID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time // Soft-delete support
}

// NewTransaction creates a new manually entered Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	accountID *uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	categoryID *uuid.UUID,
	notes string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   accountID,
		Date:        date,
		Description: description,
		Amount:      NormalizeAmount(amount, transactionType),
		Type:        transactionType,
		CategoryID:  categoryID,
		Notes:       notes,
		Source:      TransactionSourceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NormalizeAmount applies the ledger sign convention: expenses are stored
// negative, income positive, regardless of the sign the caller supplied.
func NormalizeAmount(amount decimal.Decimal, transactionType TransactionType) decimal.Decimal {
	abs := amount.Abs()
	if transactionType == TransactionTypeExpense {
		return abs.Neg()
	}
	return abs
}

// NewPlaidTransaction creates a Transaction ingested from a Plaid sync.
func NewPlaidTransaction(
	userID uuid.UUID,
	accountID uuid.UUID,
	plaidTransactionID string,
	date time.Time,
	description, merchantName string,
	amount decimal.Decimal,
	pending bool,
) *Transaction {
	now := time.Now().UTC()

	txnType := TransactionTypeExpense
	if amount.IsPositive() {
		txnType = TransactionTypeIncome
	}

	return &Transaction{
		ID:                 uuid.New(),
		UserID:             userID,
		AccountID:          &accountID,
		Date:               date,
		Description:        description,
		MerchantName:       merchantName,
		Amount:             amount,
		Type:               txnType,
		Pending:            pending,
		Source:             TransactionSourcePlaid,
		PlaidTransactionID: plaidTransactionID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// TransactionWithCategory represents a transaction with its associated category.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*TransactionWithCategory
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// TransactionTotals represents aggregated totals for transactions.
type TransactionTotals struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetTotal     decimal.Decimal
}
