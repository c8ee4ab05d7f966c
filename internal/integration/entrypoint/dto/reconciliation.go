// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// ManualLinkRequest represents the request body for manually linking a manual
// transaction to a bank-fed one.
type ManualLinkRequest struct {
	ManualTransactionID string `json:"manual_transaction_id" binding:"required,uuid"`
	BankTransactionID   string `json:"bank_transaction_id" binding:"required,uuid"`
	Force               bool   `json:"force,omitempty"`
}

// UnlinkRequest represents the request body for removing a reconciliation link.
type UnlinkRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
}

// CandidateMatchResponse represents one candidate bank match in API responses.
type CandidateMatchResponse struct {
	BankTransactionID string  `json:"bank_transaction_id"`
	BankDate          string  `json:"bank_date"`
	BankDescription   string  `json:"bank_description"`
	BankAmount        string  `json:"bank_amount"`
	DaysApart         int     `json:"days_apart"`
	AmountDifference  string  `json:"amount_difference"`
	Confidence        string  `json:"confidence"`
	Score             float64 `json:"score"`
}

// PendingEntryResponse represents an unreconciled manual transaction with its
// candidate matches.
type PendingEntryResponse struct {
	ManualTransactionID string                   `json:"manual_transaction_id"`
	Date                string                   `json:"date"`
	Description         string                   `json:"description"`
	Amount              string                   `json:"amount"`
	Candidates          []CandidateMatchResponse `json:"candidates"`
}

// PendingListResponse represents the response for listing pending entries.
type PendingListResponse struct {
	Entries []PendingEntryResponse `json:"entries"`
}

// LinkedPairResponse represents a reconciled pair in API responses.
type LinkedPairResponse struct {
	ManualTransactionID string    `json:"manual_transaction_id"`
	BankTransactionID   string    `json:"bank_transaction_id"`
	Date                string    `json:"date"`
	Description         string    `json:"description"`
	Amount              string    `json:"amount"`
	LinkedAt            time.Time `json:"linked_at"`
}

// LinkedListResponse represents the response for listing reconciled pairs.
type LinkedListResponse struct {
	Pairs []LinkedPairResponse `json:"pairs"`
}

// ReconciliationSummaryResponse represents reconciliation summary statistics.
type ReconciliationSummaryResponse struct {
	TotalPending int `json:"total_pending"`
	TotalLinked  int `json:"total_linked"`
	AutoLinkable int `json:"auto_linkable"`
}

// ReconciliationResultResponse represents the outcome of an auto-match run.
type ReconciliationResultResponse struct {
	AutoLinked        []LinkedPairResponse   `json:"auto_linked"`
	RequiresSelection []PendingEntryResponse `json:"requires_selection"`
	NoMatch           []PendingEntryResponse `json:"no_match"`
}

// ManualLinkResponse represents the response for a manual link.
type ManualLinkResponse struct {
	ManualTransactionID string `json:"manual_transaction_id"`
	BankTransactionID   string `json:"bank_transaction_id"`
	AmountDifference    string `json:"amount_difference"`
	HasMismatch         bool   `json:"has_mismatch"`
}

// ToCandidateMatchResponse converts a CandidateMatch to its response DTO.
func ToCandidateMatchResponse(match valueobject.CandidateMatch) CandidateMatchResponse {
	return CandidateMatchResponse{
		BankTransactionID: match.BankTransactionID.String(),
		BankDate:          match.BankDate.Format("2006-01-02"),
		BankDescription:   match.BankDescription,
		BankAmount:        match.BankAmount.String(),
		DaysApart:         match.DaysApart,
		AmountDifference:  match.AmountDifference.String(),
		Confidence:        string(match.Confidence),
		Score:             match.Score,
	}
}

// ToPendingEntryResponse converts a PendingEntry to its response DTO.
func ToPendingEntryResponse(entry valueobject.PendingEntry) PendingEntryResponse {
	candidates := make([]CandidateMatchResponse, len(entry.Candidates))
	for i, match := range entry.Candidates {
		candidates[i] = ToCandidateMatchResponse(match)
	}
	return PendingEntryResponse{
		ManualTransactionID: entry.ManualTransactionID.String(),
		Date:                entry.Date.Format("2006-01-02"),
		Description:         entry.Description,
		Amount:              entry.Amount.String(),
		Candidates:          candidates,
	}
}

// ToPendingListResponse converts a list of PendingEntry to PendingListResponse.
func ToPendingListResponse(entries []valueobject.PendingEntry) PendingListResponse {
	out := make([]PendingEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = ToPendingEntryResponse(entry)
	}
	return PendingListResponse{
		Entries: out,
	}
}

// ToLinkedPairResponse converts a LinkedPair to its response DTO.
func ToLinkedPairResponse(pair valueobject.LinkedPair) LinkedPairResponse {
	return LinkedPairResponse{
		ManualTransactionID: pair.ManualTransactionID.String(),
		BankTransactionID:   pair.BankTransactionID.String(),
		Date:                pair.Date.Format("2006-01-02"),
		Description:         pair.Description,
		Amount:              pair.Amount.String(),
		LinkedAt:            pair.LinkedAt,
	}
}

// ToLinkedListResponse converts a list of LinkedPair to LinkedListResponse.
func ToLinkedListResponse(pairs []valueobject.LinkedPair) LinkedListResponse {
	out := make([]LinkedPairResponse, len(pairs))
	for i, pair := range pairs {
		out[i] = ToLinkedPairResponse(pair)
	}
	return LinkedListResponse{
		Pairs: out,
	}
}

// ToReconciliationResultResponse converts a ReconciliationResult to its
// response DTO.
func ToReconciliationResultResponse(result valueobject.ReconciliationResult) ReconciliationResultResponse {
	autoLinked := make([]LinkedPairResponse, len(result.AutoLinked))
	for i, pair := range result.AutoLinked {
		autoLinked[i] = ToLinkedPairResponse(pair)
	}
	requiresSelection := make([]PendingEntryResponse, len(result.RequiresSelection))
	for i, entry := range result.RequiresSelection {
		requiresSelection[i] = ToPendingEntryResponse(entry)
	}
	noMatch := make([]PendingEntryResponse, len(result.NoMatch))
	for i, entry := range result.NoMatch {
		noMatch[i] = ToPendingEntryResponse(entry)
	}
	return ReconciliationResultResponse{
		AutoLinked:        autoLinked,
		RequiresSelection: requiresSelection,
		NoMatch:           noMatch,
	}
}
