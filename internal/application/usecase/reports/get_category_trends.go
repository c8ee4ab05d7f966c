package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// OthersCategoryID is the sentinel ID for the aggregated "Others" series.
var OthersCategoryID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

// OthersCategoryColor is the color for the "Others" series.
const OthersCategoryColor = "#9CA3AF"

// GetCategoryTrendsInput represents the input for getting category trends.
type GetCategoryTrendsInput struct {
	UserID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Granularity   Granularity
	TopCategories int
}

// CategoryInfo represents category information with total amount.
type CategoryInfo struct {
	ID          uuid.UUID
	Name        string
	Color       string
	TotalAmount decimal.Decimal
	IsOthers    bool
}

// CategoryAmount represents the amount for a category in one period.
type CategoryAmount struct {
	CategoryID uuid.UUID
	Amount     decimal.Decimal
}

// TrendDataPoint represents a single trend point with amounts per category.
type TrendDataPoint struct {
	Date        time.Time
	PeriodLabel string
	Amounts     []CategoryAmount
}

// GetCategoryTrendsOutput represents the output of getting category trends.
type GetCategoryTrendsOutput struct {
	Period     TrendsPeriod
	Categories []CategoryInfo
	Trends     []TrendDataPoint
}

// GetCategoryTrendsUseCase handles per-category expense trends: the top N
// categories get their own series, the rest collapse into "Others".
type GetCategoryTrendsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetCategoryTrendsUseCase creates a new GetCategoryTrendsUseCase instance.
func NewGetCategoryTrendsUseCase(transactionRepo adapter.TransactionRepository) *GetCategoryTrendsUseCase {
	return &GetCategoryTrendsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the category trends retrieval.
func (uc *GetCategoryTrendsUseCase) Execute(
	ctx context.Context,
	input GetCategoryTrendsInput,
) (*GetCategoryTrendsOutput, error) {
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.Granularity != GranularityDaily &&
		input.Granularity != GranularityWeekly &&
		input.Granularity != GranularityMonthly {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidGranularity,
			"granularity must be: daily, weekly, or monthly",
			domainerror.ErrInvalidGranularity,
		)
	}

	expenses, err := uc.transactionRepo.GetExpensesByDateRange(
		ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	period := TrendsPeriod{
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Granularity: input.Granularity,
	}
	if len(expenses) == 0 {
		return &GetCategoryTrendsOutput{
			Period:     period,
			Categories: []CategoryInfo{},
			Trends:     []TrendDataPoint{},
		}, nil
	}

	// Totals and display info per category
	categoryTotals := make(map[uuid.UUID]decimal.Decimal)
	categoryNames := make(map[uuid.UUID]string)
	categoryColors := make(map[uuid.UUID]string)
	for _, exp := range expenses {
		if exp.Transaction.CategoryID == nil {
			continue
		}
		categoryID := *exp.Transaction.CategoryID
		categoryTotals[categoryID] = categoryTotals[categoryID].Add(exp.Transaction.Amount.Abs())
		if exp.Category != nil {
			categoryNames[categoryID] = exp.Category.Name
			categoryColors[categoryID] = exp.Category.Color
		}
	}

	topIDs, othersTotal := selectTopCategories(categoryTotals, input.TopCategories)

	categories := make([]CategoryInfo, 0, len(topIDs)+1)
	for _, categoryID := range topIDs {
		categories = append(categories, CategoryInfo{
			ID:          categoryID,
			Name:        categoryNames[categoryID],
			Color:       categoryColors[categoryID],
			TotalAmount: categoryTotals[categoryID],
		})
	}
	if othersTotal.GreaterThan(decimal.Zero) {
		categories = append(categories, CategoryInfo{
			ID:          OthersCategoryID,
			Name:        "Others",
			Color:       OthersCategoryColor,
			TotalAmount: othersTotal,
			IsOthers:    true,
		})
	}

	trends := aggregateByPeriod(expenses, topIDs, input.Granularity, input.StartDate, input.EndDate)

	return &GetCategoryTrendsOutput{
		Period:     period,
		Categories: categories,
		Trends:     trends,
	}, nil
}

// selectTopCategories returns the top N category IDs by total and the sum of
// everything else.
func selectTopCategories(totals map[uuid.UUID]decimal.Decimal, topN int) ([]uuid.UUID, decimal.Decimal) {
	type categoryTotal struct {
		ID    uuid.UUID
		Total decimal.Decimal
	}
	sorted := make([]categoryTotal, 0, len(totals))
	for id, total := range totals {
		sorted = append(sorted, categoryTotal{ID: id, Total: total})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Total.GreaterThan(sorted[j].Total)
	})

	topIDs := make([]uuid.UUID, 0, topN)
	othersTotal := decimal.Zero
	for i, ct := range sorted {
		if i < topN {
			topIDs = append(topIDs, ct.ID)
		} else {
			othersTotal = othersTotal.Add(ct.Total)
		}
	}
	return topIDs, othersTotal
}

// aggregateByPeriod buckets expenses into time periods per category.
func aggregateByPeriod(
	expenses []*entity.TransactionWithCategory,
	topIDs []uuid.UUID,
	granularity Granularity,
	startDate, endDate time.Time,
) []TrendDataPoint {
	topSet := make(map[uuid.UUID]bool, len(topIDs))
	for _, id := range topIDs {
		topSet[id] = true
	}

	periods := categoryTrendPeriods(startDate, endDate, granularity)

	// periodKey -> categoryID -> amount
	buckets := make(map[string]map[uuid.UUID]decimal.Decimal, len(periods))
	for _, p := range periods {
		key := p.Date.Format("2006-01-02")
		buckets[key] = make(map[uuid.UUID]decimal.Decimal, len(topIDs)+1)
		for _, categoryID := range topIDs {
			buckets[key][categoryID] = decimal.Zero
		}
		buckets[key][OthersCategoryID] = decimal.Zero
	}

	for _, exp := range expenses {
		if exp.Transaction.CategoryID == nil {
			continue
		}
		key := GetPeriodKeyForDate(exp.Transaction.Date, granularity)
		if _, ok := buckets[key]; !ok {
			continue
		}
		categoryID := *exp.Transaction.CategoryID
		if !topSet[categoryID] {
			categoryID = OthersCategoryID
		}
		buckets[key][categoryID] = buckets[key][categoryID].Add(exp.Transaction.Amount.Abs())
	}

	trends := make([]TrendDataPoint, 0, len(periods))
	for _, p := range periods {
		key := p.Date.Format("2006-01-02")
		amounts := make([]CategoryAmount, 0, len(topIDs)+1)
		for _, categoryID := range topIDs {
			amounts = append(amounts, CategoryAmount{
				CategoryID: categoryID,
				Amount:     buckets[key][categoryID],
			})
		}
		if buckets[key][OthersCategoryID].GreaterThan(decimal.Zero) {
			amounts = append(amounts, CategoryAmount{
				CategoryID: OthersCategoryID,
				Amount:     buckets[key][OthersCategoryID],
			})
		}
		trends = append(trends, TrendDataPoint{
			Date:        p.Date,
			PeriodLabel: p.PeriodLabel,
			Amounts:     amounts,
		})
	}
	return trends
}

// categoryTrendPeriods generates the period series, including the daily
// granularity the aggregate trend report does not offer.
func categoryTrendPeriods(startDate, endDate time.Time, granularity Granularity) []PeriodInfo {
	if granularity != GranularityDaily {
		return GeneratePeriodSeries(startDate, endDate, granularity)
	}

	var periods []PeriodInfo
	current := startDate
	for !current.After(endDate) {
		periods = append(periods, PeriodInfo{
			Date:        current,
			PeriodStart: current,
			PeriodEnd:   current,
			PeriodLabel: current.Format("Jan 2"),
		})
		current = current.AddDate(0, 0, 1)
	}
	return periods
}
