package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GetDataRangeInput represents the input for getting the data range.
type GetDataRangeInput struct {
	UserID uuid.UUID
}

// GetDataRangeOutput represents the output of getting the data range.
type GetDataRangeOutput struct {
	OldestDate        *time.Time
	NewestDate        *time.Time
	TotalTransactions int
	HasData           bool
}

// GetDataRangeUseCase reports the date boundaries of the user's history, so
// clients can bound their period pickers.
type GetDataRangeUseCase struct {
	reportsRepo Repository
}

// NewGetDataRangeUseCase creates a new GetDataRangeUseCase instance.
func NewGetDataRangeUseCase(reportsRepo Repository) *GetDataRangeUseCase {
	return &GetDataRangeUseCase{
		reportsRepo: reportsRepo,
	}
}

// Execute retrieves the date range of the user's transactions.
func (uc *GetDataRangeUseCase) Execute(ctx context.Context, input GetDataRangeInput) (*GetDataRangeOutput, error) {
	dateRange, err := uc.reportsRepo.GetDateRange(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get date range: %w", err)
	}

	return &GetDataRangeOutput{
		OldestDate:        dateRange.OldestDate,
		NewestDate:        dateRange.NewestDate,
		TotalTransactions: dateRange.TotalTransactions,
		HasData:           dateRange.OldestDate != nil && dateRange.NewestDate != nil,
	}, nil
}
