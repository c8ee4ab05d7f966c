package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pagination bounds for period transaction listings.
const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 100
)

// GetCashFlowInput represents the input for the cash flow report.
type GetCashFlowInput struct {
	UserID     uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	CategoryID *uuid.UUID // Optional filter for the transaction listing
	Limit      int
	Offset     int
}

// CashFlowTransaction represents one transaction in the cash flow listing.
type CashFlowTransaction struct {
	ID            string
	Description   string
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    *string
	CategoryName  *string
	CategoryColor *string
	CategoryIcon  *string
}

// CashFlowSummary represents the cash flow totals for the period.
type CashFlowSummary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
}

// CashFlowPagination represents pagination information for the listing.
type CashFlowPagination struct {
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// CashFlowPeriod represents the period information for the report.
type CashFlowPeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	PeriodLabel string
}

// GetCashFlowOutput represents the output of the cash flow report.
type GetCashFlowOutput struct {
	Period       CashFlowPeriod
	Summary      CashFlowSummary
	Transactions []CashFlowTransaction
	Pagination   CashFlowPagination
}

// GetCashFlowUseCase handles the cash flow report: period totals plus the
// paged transactions behind them.
type GetCashFlowUseCase struct {
	reportsRepo Repository
}

// NewGetCashFlowUseCase creates a new GetCashFlowUseCase instance.
func NewGetCashFlowUseCase(reportsRepo Repository) *GetCashFlowUseCase {
	return &GetCashFlowUseCase{
		reportsRepo: reportsRepo,
	}
}

// Execute retrieves the cash flow report for the period.
func (uc *GetCashFlowUseCase) Execute(ctx context.Context, input GetCashFlowInput) (*GetCashFlowOutput, error) {
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	summary, err := uc.reportsRepo.GetPeriodSummary(ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get period summary: %w", err)
	}

	transactions, total, err := uc.reportsRepo.GetTransactionsByPeriod(
		ctx, input.UserID, input.StartDate, input.EndDate, input.CategoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	items := make([]CashFlowTransaction, 0, len(transactions))
	for _, t := range transactions {
		item := CashFlowTransaction{
			ID:            t.ID.String(),
			Description:   t.Description,
			Amount:        t.Amount,
			Date:          t.Date,
			CategoryName:  t.CategoryName,
			CategoryColor: t.CategoryColor,
			CategoryIcon:  t.CategoryIcon,
		}
		if t.CategoryID != nil {
			categoryID := t.CategoryID.String()
			item.CategoryID = &categoryID
		}
		items = append(items, item)
	}

	return &GetCashFlowOutput{
		Period: CashFlowPeriod{
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			PeriodLabel: generateRangeLabel(input.StartDate, input.EndDate),
		},
		Summary: CashFlowSummary{
			TotalIncome:      summary.TotalIncome,
			TotalExpenses:    summary.TotalExpenses,
			Balance:          summary.Balance,
			TransactionCount: summary.TransactionCount,
		},
		Transactions: items,
		Pagination: CashFlowPagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
		},
	}, nil
}
