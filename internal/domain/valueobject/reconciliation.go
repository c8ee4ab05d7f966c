// Package valueobject contains domain value objects for the Manna system.
package valueobject

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Confidence represents the confidence level of a reconciliation match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CandidateMatch is a bank-fed transaction that could reconcile against a
// manually entered one.
type CandidateMatch struct {
	BankTransactionID uuid.UUID
	BankDate          time.Time
	BankDescription   string
	BankAmount        decimal.Decimal
	DaysApart         int
	AmountDifference  decimal.Decimal
	Confidence        Confidence
	Score             float64 // For ranking multiple matches (0-1.0)
}

// PendingEntry is a manual transaction with its candidate bank matches.
type PendingEntry struct {
	ManualTransactionID uuid.UUID
	Date                time.Time
	Description         string
	Amount              decimal.Decimal
	Candidates          []CandidateMatch
}

// LinkedPair is a reconciled manual/bank transaction pair.
type LinkedPair struct {
	ManualTransactionID uuid.UUID
	BankTransactionID   uuid.UUID
	Date                time.Time
	Description         string
	Amount              decimal.Decimal
	LinkedAt            time.Time
}

// ReconciliationSummary contains summary statistics for reconciliation.
type ReconciliationSummary struct {
	TotalPending int
	TotalLinked  int
	AutoLinkable int
}

// ReconciliationResult reports one auto-match run.
type ReconciliationResult struct {
	AutoLinked        []LinkedPair
	RequiresSelection []PendingEntry
	NoMatch           []PendingEntry
}

// MatchingConfig contains the tolerances for bank-to-manual matching.
type MatchingConfig struct {
	DateToleranceDays     int             // Maximum days between the two dates
	AmountTolerance       decimal.Decimal // Absolute amount slack (same currency)
	HighConfidenceMaxDays int             // Exact amount within this window => high
	MedConfidenceMaxDays  int             // Exact amount within this window => medium
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		DateToleranceDays:     7,
		AmountTolerance:       decimal.NewFromFloat(0.01),
		HighConfidenceMaxDays: 1,
		MedConfidenceMaxDays:  3,
	}
}

// AmountsMatch checks whether two amounts are equal within tolerance.
func (c MatchingConfig) AmountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(c.AmountTolerance)
}

// CalculateConfidence grades a candidate by how far apart the dates are.
// Amounts are assumed to already match within tolerance.
func (c MatchingConfig) CalculateConfidence(daysApart int) Confidence {
	if daysApart < 0 {
		daysApart = -daysApart
	}
	switch {
	case daysApart <= c.HighConfidenceMaxDays:
		return ConfidenceHigh
	case daysApart <= c.MedConfidenceMaxDays:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Score converts a candidate's distance into a 0-1 ranking value.
func (c MatchingConfig) Score(daysApart int) float64 {
	if daysApart < 0 {
		daysApart = -daysApart
	}
	if daysApart > c.DateToleranceDays {
		return 0
	}
	return 1 - float64(daysApart)/float64(c.DateToleranceDays+1)
}
