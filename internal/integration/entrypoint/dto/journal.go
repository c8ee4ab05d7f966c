// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/isakbosman/manna/internal/application/usecase/journal"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// JournalEntryResponse represents a single journal entry in API responses.
type JournalEntryResponse struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Date          string `json:"date"`
	Memo          string `json:"memo"`
	DebitAccount  string `json:"debit_account"`
	CreditAccount string `json:"credit_account"`
	Amount        string `json:"amount"`
}

// JournalEntryListResponse represents the response for listing journal entries.
type JournalEntryListResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
}

// AccountBalanceResponse represents one account line in the trial balance.
type AccountBalanceResponse struct {
	Account string `json:"account"`
	Debits  string `json:"debits"`
	Credits string `json:"credits"`
	Net     string `json:"net"`
}

// TrialBalanceResponse represents the trial balance for a period.
type TrialBalanceResponse struct {
	From         string                   `json:"from"`
	To           string                   `json:"to"`
	Accounts     []AccountBalanceResponse `json:"accounts"`
	TotalDebits  string                   `json:"total_debits"`
	TotalCredits string                   `json:"total_credits"`
}

// ToJournalEntryResponse converts an EntryOutput to its response DTO.
func ToJournalEntryResponse(output *journal.EntryOutput) JournalEntryResponse {
	return JournalEntryResponse{
		ID:            output.ID.String(),
		TransactionID: output.TransactionID.String(),
		Date:          output.Date.Format("2006-01-02"),
		Memo:          output.Memo,
		DebitAccount:  output.DebitAccount,
		CreditAccount: output.CreditAccount,
		Amount:        output.Amount.String(),
	}
}

// ToJournalEntryListResponse converts a list of EntryOutput to
// JournalEntryListResponse.
func ToJournalEntryListResponse(outputs []*journal.EntryOutput) JournalEntryListResponse {
	entries := make([]JournalEntryResponse, len(outputs))
	for i, output := range outputs {
		entries[i] = ToJournalEntryResponse(output)
	}
	return JournalEntryListResponse{
		Entries: entries,
	}
}

// ToTrialBalanceResponse converts a TrialBalance entity to its response DTO.
func ToTrialBalanceResponse(tb *entity.TrialBalance) TrialBalanceResponse {
	accounts := make([]AccountBalanceResponse, len(tb.Accounts))
	for i, balance := range tb.Accounts {
		accounts[i] = AccountBalanceResponse{
			Account: balance.Account,
			Debits:  balance.Debits.String(),
			Credits: balance.Credits.String(),
			Net:     balance.Net().String(),
		}
	}
	return TrialBalanceResponse{
		From:         tb.From.Format("2006-01-02"),
		To:           tb.To.Format("2006-01-02"),
		Accounts:     accounts,
		TotalDebits:  tb.TotalDebits().String(),
		TotalCredits: tb.TotalCredits().String(),
	}
}
