// Package reconciliation contains use cases for matching manually entered
// transactions against their bank-fed counterparts.
package reconciliation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

// DefaultRangeDays is how far back the matching window reaches when the
// caller does not supply a date range.
const DefaultRangeDays = 90

// resolveDateRange applies the default window for missing bounds.
func resolveDateRange(startDate, endDate *time.Time) (time.Time, time.Time) {
	end := time.Now().UTC()
	if endDate != nil {
		end = *endDate
	}
	start := end.AddDate(0, 0, -DefaultRangeDays)
	if startDate != nil {
		start = *startDate
	}
	return start, end
}

// daysBetween returns the absolute whole-day distance between two dates.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(bDay.Sub(aDay).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// buildCandidates returns the bank transactions that could reconcile against
// the manual one, best match first. Already-linked bank rows are skipped.
func buildCandidates(
	manual *entity.Transaction,
	bankTxns []*entity.Transaction,
	linked map[uuid.UUID]bool,
	cfg valueobject.MatchingConfig,
) []valueobject.CandidateMatch {
	var candidates []valueobject.CandidateMatch
	for _, bank := range bankTxns {
		if linked[bank.ID] {
			continue
		}
		if !cfg.AmountsMatch(manual.Amount, bank.Amount) {
			continue
		}
		days := daysBetween(manual.Date, bank.Date)
		if days > cfg.DateToleranceDays {
			continue
		}
		candidates = append(candidates, valueobject.CandidateMatch{
			BankTransactionID: bank.ID,
			BankDate:          bank.Date,
			BankDescription:   bank.Description,
			BankAmount:        bank.Amount,
			DaysApart:         days,
			AmountDifference:  manual.Amount.Sub(bank.Amount).Abs(),
			Confidence:        cfg.CalculateConfidence(days),
			Score:             cfg.Score(days),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// buildPendingEntries pairs every unlinked manual transaction with its
// candidate bank matches.
func buildPendingEntries(
	manualTxns, bankTxns []*entity.Transaction,
	linked map[uuid.UUID]bool,
	cfg valueobject.MatchingConfig,
) []valueobject.PendingEntry {
	entries := make([]valueobject.PendingEntry, 0, len(manualTxns))
	for _, manual := range manualTxns {
		if linked[manual.ID] {
			continue
		}
		entries = append(entries, valueobject.PendingEntry{
			ManualTransactionID: manual.ID,
			Date:                manual.Date,
			Description:         manual.Description,
			Amount:              manual.Amount,
			Candidates:          buildCandidates(manual, bankTxns, linked, cfg),
		})
	}
	return entries
}
