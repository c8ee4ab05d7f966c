// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/application/usecase/reports"
)

// reportRepository implements the reports.Repository interface.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance.
func NewReportRepository(db *gorm.DB) reports.Repository {
	return &reportRepository{
		db: db,
	}
}

// GetDateRange returns the date range of the user's transactions.
func (r *reportRepository) GetDateRange(
	ctx context.Context,
	userID uuid.UUID,
) (*reports.DateRange, error) {
	var rows []struct {
		Date time.Time `gorm:"column:date"`
	}

	err := r.db.WithContext(ctx).
		Table("transactions").
		Select("date").
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL").
		Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get date range: %w", err)
	}

	// Min and max are computed in Go; aggregating over the date column
	// loses its type and does not scan back identically on every engine.
	var oldest, newest *time.Time
	for i := range rows {
		date := rows[i].Date
		if oldest == nil || date.Before(*oldest) {
			oldest = &rows[i].Date
		}
		if newest == nil || date.After(*newest) {
			newest = &rows[i].Date
		}
	}

	return &reports.DateRange{
		OldestDate:        oldest,
		NewestDate:        newest,
		TotalTransactions: len(rows),
	}, nil
}

// GetAggregatedTrends returns income/expense trends aggregated by granularity.
func (r *reportRepository) GetAggregatedTrends(
	ctx context.Context,
	userID uuid.UUID,
	startDate, endDate time.Time,
	granularity reports.Granularity,
) ([]reports.RawTrendData, error) {
	var rows []struct {
		Date   time.Time       `gorm:"column:date"`
		Amount decimal.Decimal `gorm:"column:amount"`
	}

	err := r.db.WithContext(ctx).
		Table("transactions").
		Select("date, amount").
		Where("user_id = ?", userID).
		Where("date >= ?", startDate).
		Where("date <= ?", endDate).
		Where("deleted_at IS NULL").
		Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get aggregated trends: %w", err)
	}

	// Bucketing happens in Go so every database engine groups identically.
	buckets := make(map[time.Time]*reports.RawTrendData)
	for _, row := range rows {
		period := truncateToPeriod(row.Date, granularity)
		bucket, ok := buckets[period]
		if !ok {
			bucket = &reports.RawTrendData{PeriodStart: period}
			buckets[period] = bucket
		}
		if row.Amount.IsPositive() {
			bucket.Income = bucket.Income.Add(row.Amount)
		} else {
			bucket.Expenses = bucket.Expenses.Add(row.Amount.Abs())
		}
		bucket.TransactionCount++
	}

	trends := make([]reports.RawTrendData, 0, len(buckets))
	for _, bucket := range buckets {
		trends = append(trends, *bucket)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].PeriodStart.Before(trends[j].PeriodStart)
	})

	return trends, nil
}

// truncateToPeriod returns the first day of the period containing the date.
// Weeks start on Monday.
func truncateToPeriod(date time.Time, granularity reports.Granularity) time.Time {
	year, month, day := date.Date()
	switch granularity {
	case reports.GranularityWeekly:
		truncated := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		offset := (int(truncated.Weekday()) + 6) % 7
		return truncated.AddDate(0, 0, -offset)
	case reports.GranularityQuarterly:
		quarterStart := time.Month((int(month)-1)/3*3 + 1)
		return time.Date(year, quarterStart, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	}
}

// GetCategoryBreakdown returns spending breakdown by category for a period.
func (r *reportRepository) GetCategoryBreakdown(
	ctx context.Context,
	userID uuid.UUID,
	startDate, endDate time.Time,
) ([]reports.RawCategoryBreakdown, decimal.Decimal, error) {
	var results []struct {
		CategoryID       *uuid.UUID      `gorm:"column:category_id"`
		CategoryName     *string         `gorm:"column:category_name"`
		CategoryColor    *string         `gorm:"column:category_color"`
		CategoryIcon     *string         `gorm:"column:category_icon"`
		Amount           decimal.Decimal `gorm:"column:amount"`
		TransactionCount int             `gorm:"column:transaction_count"`
	}

	query := `
		SELECT
			t.category_id,
			c.name as category_name,
			c.color as category_color,
			c.icon as category_icon,
			SUM(ABS(t.amount)) as amount,
			COUNT(*) as transaction_count
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id AND c.deleted_at IS NULL
		WHERE t.user_id = ?
			AND t.date >= ?
			AND t.date <= ?
			AND t.amount < 0
			AND t.deleted_at IS NULL
		GROUP BY t.category_id, c.name, c.color, c.icon
		ORDER BY amount DESC
	`

	err := r.db.WithContext(ctx).
		Raw(query, userID, startDate, endDate).
		Scan(&results).Error

	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to get category breakdown: %w", err)
	}

	totalExpenses := decimal.Zero
	breakdown := make([]reports.RawCategoryBreakdown, len(results))
	for i, res := range results {
		totalExpenses = totalExpenses.Add(res.Amount)
		breakdown[i] = reports.RawCategoryBreakdown{
			CategoryID:       res.CategoryID,
			CategoryName:     res.CategoryName,
			CategoryColor:    res.CategoryColor,
			CategoryIcon:     res.CategoryIcon,
			Amount:           res.Amount,
			TransactionCount: res.TransactionCount,
		}
	}

	return breakdown, totalExpenses, nil
}

// GetTransactionsByPeriod returns transactions for a specific period.
func (r *reportRepository) GetTransactionsByPeriod(
	ctx context.Context,
	userID uuid.UUID,
	startDate, endDate time.Time,
	categoryID *uuid.UUID,
	limit, offset int,
) ([]reports.PeriodTransaction, int, error) {
	var results []struct {
		ID            uuid.UUID       `gorm:"column:id"`
		Description   string          `gorm:"column:description"`
		Amount        decimal.Decimal `gorm:"column:amount"`
		Date          time.Time       `gorm:"column:date"`
		CategoryID    *uuid.UUID      `gorm:"column:category_id"`
		CategoryName  *string         `gorm:"column:category_name"`
		CategoryColor *string         `gorm:"column:category_color"`
		CategoryIcon  *string         `gorm:"column:category_icon"`
	}

	baseQuery := r.db.WithContext(ctx).
		Table("transactions t").
		Select(`
			t.id,
			t.description,
			t.amount,
			t.date,
			t.category_id,
			c.name as category_name,
			c.color as category_color,
			c.icon as category_icon
		`).
		Joins("LEFT JOIN categories c ON t.category_id = c.id AND c.deleted_at IS NULL").
		Where("t.user_id = ?", userID).
		Where("t.date >= ?", startDate).
		Where("t.date <= ?", endDate).
		Where("t.deleted_at IS NULL")

	if categoryID != nil {
		baseQuery = baseQuery.Where("t.category_id = ?", *categoryID)
	}

	var total int64
	countErr := baseQuery.Session(&gorm.Session{}).Count(&total).Error
	if countErr != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", countErr)
	}

	err := baseQuery.
		Order("t.date DESC, t.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&results).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	transactions := make([]reports.PeriodTransaction, len(results))
	for i, res := range results {
		transactions[i] = reports.PeriodTransaction{
			ID:            res.ID,
			Description:   res.Description,
			Amount:        res.Amount,
			Date:          res.Date,
			CategoryID:    res.CategoryID,
			CategoryName:  res.CategoryName,
			CategoryColor: res.CategoryColor,
			CategoryIcon:  res.CategoryIcon,
		}
	}

	return transactions, int(total), nil
}

// GetPeriodSummary returns cash flow totals for a period.
func (r *reportRepository) GetPeriodSummary(
	ctx context.Context,
	userID uuid.UUID,
	startDate, endDate time.Time,
) (*reports.PeriodSummary, error) {
	var result struct {
		TotalIncome      decimal.Decimal `gorm:"column:total_income"`
		TotalExpenses    decimal.Decimal `gorm:"column:total_expenses"`
		Balance          decimal.Decimal `gorm:"column:balance"`
		TransactionCount int             `gorm:"column:transaction_count"`
	}

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) as total_income,
			COALESCE(SUM(CASE WHEN amount < 0 THEN ABS(amount) ELSE 0 END), 0) as total_expenses,
			COALESCE(SUM(amount), 0) as balance,
			COUNT(*) as transaction_count
		FROM transactions
		WHERE user_id = ?
			AND date >= ?
			AND date <= ?
			AND deleted_at IS NULL
	`

	err := r.db.WithContext(ctx).
		Raw(query, userID, startDate, endDate).
		Scan(&result).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get period summary: %w", err)
	}

	return &reports.PeriodSummary{
		TotalIncome:      result.TotalIncome,
		TotalExpenses:    result.TotalExpenses,
		Balance:          result.Balance,
		TransactionCount: result.TransactionCount,
	}, nil
}
