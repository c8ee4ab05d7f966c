// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntry is a derived double-entry record for one transaction: a
// single debit account, a single credit account and a positive amount, so
// every entry balances by construction.
type JournalEntry struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TransactionID uuid.UUID
	Date          time.Time
	Memo          string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal // Always positive
	CreatedAt     time.Time
}

// NewJournalEntry creates a balanced journal entry.
func NewJournalEntry(
	userID, transactionID uuid.UUID,
	date time.Time,
	memo, debitAccount, creditAccount string,
	amount decimal.Decimal,
) *JournalEntry {
	return &JournalEntry{
		ID:            uuid.New(),
		UserID:        userID,
		TransactionID: transactionID,
		Date:          date,
		Memo:          memo,
		DebitAccount:  debitAccount,
		CreditAccount: creditAccount,
		Amount:        amount.Abs(),
		CreatedAt:     time.Now().UTC(),
	}
}

// DeriveJournalEntry builds the double-entry record for a transaction. An
// expense debits the category's expense account and credits cash; income
// debits cash and credits the income account.
func DeriveJournalEntry(transaction *Transaction, category *Category) *JournalEntry {
	const cashAccount = "Assets:Cash"

	categoryAccount := "Uncategorized"
	if category != nil {
		categoryAccount = category.Name
	}

	debit := "Expenses:" + categoryAccount
	credit := cashAccount
	if transaction.Type == TransactionTypeIncome {
		debit = cashAccount
		credit = "Income:" + categoryAccount
	}

	return NewJournalEntry(
		transaction.UserID,
		transaction.ID,
		transaction.Date,
		transaction.Description,
		debit,
		credit,
		transaction.Amount,
	)
}

// AccountBalance is one row of a trial balance: total debits and credits
// posted to a ledger account over a period.
type AccountBalance struct {
	Account string
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

// Net returns debits minus credits.
func (b AccountBalance) Net() decimal.Decimal {
	return b.Debits.Sub(b.Credits)
}

// TrialBalance is the set of account balances for a period.
type TrialBalance struct {
	From     time.Time
	To       time.Time
	Accounts []AccountBalance
}

// TotalDebits sums the debit column.
func (t *TrialBalance) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, a := range t.Accounts {
		total = total.Add(a.Debits)
	}
	return total
}

// TotalCredits sums the credit column.
func (t *TrialBalance) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, a := range t.Accounts {
		total = total.Add(a.Credits)
	}
	return total
}
