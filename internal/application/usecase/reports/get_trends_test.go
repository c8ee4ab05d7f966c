package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

type fakeReportsRepo struct {
	Repository

	trends []RawTrendData
}

func (r *fakeReportsRepo) GetAggregatedTrends(
	_ context.Context,
	_ uuid.UUID,
	_, _ time.Time,
	_ Granularity,
) ([]RawTrendData, error) {
	return r.trends, nil
}

func TestGetTrends(t *testing.T) {
	ctx := context.Background()

	t.Run("fills empty periods with zero points", func(t *testing.T) {
		repo := &fakeReportsRepo{
			trends: []RawTrendData{
				{
					PeriodStart:      date(2025, 1, 1),
					Income:           decimal.NewFromInt(3000),
					Expenses:         decimal.NewFromInt(1800),
					TransactionCount: 12,
				},
				{
					PeriodStart:      date(2025, 3, 1),
					Income:           decimal.NewFromInt(3000),
					Expenses:         decimal.NewFromInt(2400),
					TransactionCount: 15,
				},
			},
		}
		useCase := NewGetTrendsUseCase(repo)

		output, err := useCase.Execute(ctx, GetTrendsInput{
			UserID:      uuid.New(),
			StartDate:   date(2025, 1, 1),
			EndDate:     date(2025, 3, 31),
			Granularity: GranularityMonthly,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(output.Trends) != 3 {
			t.Fatalf("expected 3 points, got %d", len(output.Trends))
		}
		if !output.Trends[0].Balance.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected January balance 1200, got %s", output.Trends[0].Balance)
		}
		// February has no data and must still appear
		feb := output.Trends[1]
		if !feb.Income.IsZero() || !feb.Expenses.IsZero() || feb.TransactionCount != 0 {
			t.Errorf("expected zero February point, got %+v", feb)
		}
		if feb.PeriodLabel != "Feb 2025" {
			t.Errorf("expected label Feb 2025, got %q", feb.PeriodLabel)
		}
	})

	t.Run("rejects an inverted date range", func(t *testing.T) {
		useCase := NewGetTrendsUseCase(&fakeReportsRepo{})

		_, err := useCase.Execute(ctx, GetTrendsInput{
			UserID:      uuid.New(),
			StartDate:   date(2025, 3, 1),
			EndDate:     date(2025, 1, 1),
			Granularity: GranularityMonthly,
		})
		if !errors.Is(err, domainerror.ErrInvalidDateRange) {
			t.Fatalf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("rejects an unsupported granularity", func(t *testing.T) {
		useCase := NewGetTrendsUseCase(&fakeReportsRepo{})

		_, err := useCase.Execute(ctx, GetTrendsInput{
			UserID:      uuid.New(),
			StartDate:   date(2025, 1, 1),
			EndDate:     date(2025, 3, 31),
			Granularity: GranularityDaily,
		})
		if !errors.Is(err, domainerror.ErrInvalidGranularity) {
			t.Fatalf("expected ErrInvalidGranularity, got %v", err)
		}
	})
}
