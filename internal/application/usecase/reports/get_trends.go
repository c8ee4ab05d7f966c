package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// GetTrendsInput represents the input for getting income/expense trends.
type GetTrendsInput struct {
	UserID      uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	Granularity Granularity
}

// TrendPoint represents a single trend data point.
type TrendPoint struct {
	Date             time.Time
	PeriodLabel      string
	Income           decimal.Decimal
	Expenses         decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
}

// TrendsPeriod represents the period information for trends.
type TrendsPeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	Granularity Granularity
}

// GetTrendsOutput represents the output of getting trends.
type GetTrendsOutput struct {
	Period TrendsPeriod
	Trends []TrendPoint
}

// GetTrendsUseCase handles getting income/expense trends over time.
type GetTrendsUseCase struct {
	reportsRepo Repository
}

// NewGetTrendsUseCase creates a new GetTrendsUseCase instance.
func NewGetTrendsUseCase(reportsRepo Repository) *GetTrendsUseCase {
	return &GetTrendsUseCase{
		reportsRepo: reportsRepo,
	}
}

// Execute retrieves income/expense trends for the period and granularity.
func (uc *GetTrendsUseCase) Execute(ctx context.Context, input GetTrendsInput) (*GetTrendsOutput, error) {
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.Granularity != GranularityWeekly &&
		input.Granularity != GranularityMonthly &&
		input.Granularity != GranularityQuarterly {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidGranularity,
			"granularity must be: weekly, monthly, or quarterly",
			domainerror.ErrInvalidGranularity,
		)
	}

	rawTrends, err := uc.reportsRepo.GetAggregatedTrends(
		ctx, input.UserID, input.StartDate, input.EndDate, input.Granularity)
	if err != nil {
		return nil, fmt.Errorf("failed to get trends: %w", err)
	}

	rawByPeriod := make(map[string]RawTrendData, len(rawTrends))
	for _, raw := range rawTrends {
		rawByPeriod[GetPeriodKeyForDate(raw.PeriodStart, input.Granularity)] = raw
	}

	// Walk the full period series so charts get zero points, not gaps
	periods := GeneratePeriodSeries(input.StartDate, input.EndDate, input.Granularity)
	trends := make([]TrendPoint, 0, len(periods))
	for _, period := range periods {
		point := TrendPoint{
			Date:        period.Date,
			PeriodLabel: period.PeriodLabel,
			Income:      decimal.Zero,
			Expenses:    decimal.Zero,
			Balance:     decimal.Zero,
		}
		if raw, ok := rawByPeriod[period.Date.Format("2006-01-02")]; ok {
			point.Income = raw.Income
			point.Expenses = raw.Expenses
			point.Balance = raw.Income.Sub(raw.Expenses)
			point.TransactionCount = raw.TransactionCount
		}
		trends = append(trends, point)
	}

	return &GetTrendsOutput{
		Period: TrendsPeriod{
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Granularity: input.Granularity,
		},
		Trends: trends,
	}, nil
}
