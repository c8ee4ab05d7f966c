package reports

import (
	"time"

	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// validateDateRange checks the shared period constraints on report inputs.
func validateDateRange(startDate, endDate time.Time) error {
	if startDate.IsZero() {
		return domainerror.NewReportError(
			domainerror.ErrCodeMissingStartDate,
			"start_date is required",
			domainerror.ErrMissingStartDate,
		)
	}
	if endDate.IsZero() {
		return domainerror.NewReportError(
			domainerror.ErrCodeMissingEndDate,
			"end_date is required",
			domainerror.ErrMissingEndDate,
		)
	}
	if endDate.Before(startDate) {
		return domainerror.NewReportError(
			domainerror.ErrCodeInvalidDateRange,
			"end_date must be after start_date",
			domainerror.ErrInvalidDateRange,
		)
	}
	return nil
}
