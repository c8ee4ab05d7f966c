// Package journal contains use cases over the derived double-entry journal.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
)

// ListEntriesInput represents the input for listing journal entries.
type ListEntriesInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// EntryOutput represents one journal entry in the output.
type EntryOutput struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Date          time.Time
	Memo          string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
}

// ListEntriesOutput represents the output of listing journal entries.
type ListEntriesOutput struct {
	Entries []*EntryOutput
}

// ListEntriesUseCase lists the journal entries for a period.
type ListEntriesUseCase struct {
	journalRepo adapter.JournalRepository
}

// NewListEntriesUseCase creates a new ListEntriesUseCase instance.
func NewListEntriesUseCase(journalRepo adapter.JournalRepository) *ListEntriesUseCase {
	return &ListEntriesUseCase{
		journalRepo: journalRepo,
	}
}

// Execute performs the entry listing.
func (uc *ListEntriesUseCase) Execute(ctx context.Context, input ListEntriesInput) (*ListEntriesOutput, error) {
	entries, err := uc.journalRepo.FindByUserAndDateRange(ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	output := &ListEntriesOutput{
		Entries: make([]*EntryOutput, 0, len(entries)),
	}
	for _, entry := range entries {
		output.Entries = append(output.Entries, &EntryOutput{
			ID:            entry.ID,
			TransactionID: entry.TransactionID,
			Date:          entry.Date,
			Memo:          entry.Memo,
			DebitAccount:  entry.DebitAccount,
			CreditAccount: entry.CreditAccount,
			Amount:        entry.Amount,
		})
	}

	return output, nil
}
