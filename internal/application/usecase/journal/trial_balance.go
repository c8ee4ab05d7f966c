package journal

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// GetTrialBalanceInput represents the input for building a trial balance.
type GetTrialBalanceInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// GetTrialBalanceOutput represents the output of building a trial balance.
type GetTrialBalanceOutput struct {
	TrialBalance *entity.TrialBalance
}

// GetTrialBalanceUseCase aggregates the period's journal entries into per
// account debit/credit totals. Because every entry posts the same amount to
// one debit and one credit account, total debits always equal total credits.
type GetTrialBalanceUseCase struct {
	journalRepo adapter.JournalRepository
}

// NewGetTrialBalanceUseCase creates a new GetTrialBalanceUseCase instance.
func NewGetTrialBalanceUseCase(journalRepo adapter.JournalRepository) *GetTrialBalanceUseCase {
	return &GetTrialBalanceUseCase{
		journalRepo: journalRepo,
	}
}

// Execute builds the trial balance.
func (uc *GetTrialBalanceUseCase) Execute(ctx context.Context, input GetTrialBalanceInput) (*GetTrialBalanceOutput, error) {
	entries, err := uc.journalRepo.FindByUserAndDateRange(ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]*entity.AccountBalance)
	account := func(name string) *entity.AccountBalance {
		if b, ok := balances[name]; ok {
			return b
		}
		b := &entity.AccountBalance{Account: name}
		balances[name] = b
		return b
	}

	for _, entry := range entries {
		debit := account(entry.DebitAccount)
		debit.Debits = debit.Debits.Add(entry.Amount)

		credit := account(entry.CreditAccount)
		credit.Credits = credit.Credits.Add(entry.Amount)
	}

	trialBalance := &entity.TrialBalance{
		From:     input.StartDate,
		To:       input.EndDate,
		Accounts: make([]entity.AccountBalance, 0, len(balances)),
	}
	for _, b := range balances {
		trialBalance.Accounts = append(trialBalance.Accounts, *b)
	}
	sort.Slice(trialBalance.Accounts, func(i, j int) bool {
		return trialBalance.Accounts[i].Account < trialBalance.Accounts[j].Account
	})

	return &GetTrialBalanceOutput{TrialBalance: trialBalance}, nil
}
