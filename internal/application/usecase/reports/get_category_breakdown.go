package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults for transactions without a category.
const (
	UncategorizedID    = "uncategorized"
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#6B7280"
	UncategorizedIcon  = "question-mark"
)

// GetCategoryBreakdownInput represents the input for getting category breakdown.
type GetCategoryBreakdownInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// CategoryBreakdownItem represents a single category in the breakdown.
type CategoryBreakdownItem struct {
	CategoryID       string
	CategoryName     string
	CategoryColor    string
	CategoryIcon     string
	Amount           decimal.Decimal
	Percentage       float64
	TransactionCount int
}

// BreakdownPeriod represents the period information for category breakdown.
type BreakdownPeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	PeriodLabel string
}

// GetCategoryBreakdownOutput represents the output of getting category breakdown.
type GetCategoryBreakdownOutput struct {
	Period        BreakdownPeriod
	TotalExpenses decimal.Decimal
	Categories    []CategoryBreakdownItem
}

// GetCategoryBreakdownUseCase handles getting spending breakdown by category.
type GetCategoryBreakdownUseCase struct {
	reportsRepo Repository
}

// NewGetCategoryBreakdownUseCase creates a new GetCategoryBreakdownUseCase instance.
func NewGetCategoryBreakdownUseCase(reportsRepo Repository) *GetCategoryBreakdownUseCase {
	return &GetCategoryBreakdownUseCase{
		reportsRepo: reportsRepo,
	}
}

// Execute retrieves spending breakdown by category for the period.
func (uc *GetCategoryBreakdownUseCase) Execute(
	ctx context.Context,
	input GetCategoryBreakdownInput,
) (*GetCategoryBreakdownOutput, error) {
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	rawBreakdown, totalExpenses, err := uc.reportsRepo.GetCategoryBreakdown(
		ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get category breakdown: %w", err)
	}

	categories := make([]CategoryBreakdownItem, 0, len(rawBreakdown))
	for _, raw := range rawBreakdown {
		var percentage float64
		if !totalExpenses.IsZero() {
			pct := raw.Amount.Mul(decimal.NewFromInt(100)).Div(totalExpenses)
			percentage, _ = pct.Round(2).Float64()
		}

		item := CategoryBreakdownItem{
			Amount:           raw.Amount,
			Percentage:       percentage,
			TransactionCount: raw.TransactionCount,
		}

		if raw.CategoryID == nil {
			item.CategoryID = UncategorizedID
			item.CategoryName = UncategorizedName
			item.CategoryColor = UncategorizedColor
			item.CategoryIcon = UncategorizedIcon
		} else {
			item.CategoryID = raw.CategoryID.String()
			if raw.CategoryName != nil {
				item.CategoryName = *raw.CategoryName
			}
			item.CategoryColor = UncategorizedColor
			if raw.CategoryColor != nil {
				item.CategoryColor = *raw.CategoryColor
			}
			item.CategoryIcon = UncategorizedIcon
			if raw.CategoryIcon != nil {
				item.CategoryIcon = *raw.CategoryIcon
			}
		}

		categories = append(categories, item)
	}

	return &GetCategoryBreakdownOutput{
		Period: BreakdownPeriod{
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			PeriodLabel: generateRangeLabel(input.StartDate, input.EndDate),
		},
		TotalExpenses: totalExpenses,
		Categories:    categories,
	}, nil
}
