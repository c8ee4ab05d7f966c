package reports

import (
	"fmt"
	"time"
)

// Granularity represents the time bucket size for trend data.
type Granularity string

const (
	GranularityDaily     Granularity = "daily"
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
)

// GeneratePeriodLabel generates a human-readable label for a period.
// Weekly: "W12 2025", monthly: "Mar 2025", quarterly: "Q1 2025".
func GeneratePeriodLabel(date time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeekly:
		_, week := date.ISOWeek()
		return fmt.Sprintf("W%d %d", week, date.Year())
	case GranularityMonthly:
		return date.Format("Jan 2006")
	case GranularityQuarterly:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, date.Year())
	default:
		return date.Format("Jan 2, 2006")
	}
}

// PeriodInfo holds the bounds and label of a single period.
type PeriodInfo struct {
	Date        time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodLabel string
}

// GeneratePeriodSeries generates every period between startDate and endDate
// so chart series have no gaps.
func GeneratePeriodSeries(startDate, endDate time.Time, granularity Granularity) []PeriodInfo {
	var periods []PeriodInfo
	loc := startDate.Location()

	switch granularity {
	case GranularityWeekly:
		current := weekStart(startDate)
		for !current.After(endDate) {
			weekEnd := current.AddDate(0, 0, 6)
			if weekEnd.After(endDate) {
				weekEnd = endDate
			}
			periods = append(periods, PeriodInfo{
				Date:        current,
				PeriodStart: current,
				PeriodEnd:   weekEnd,
				PeriodLabel: GeneratePeriodLabel(current, GranularityWeekly),
			})
			current = current.AddDate(0, 0, 7)
		}

	case GranularityMonthly:
		current := time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, loc)
		for !current.After(endDate) {
			periods = append(periods, PeriodInfo{
				Date:        current,
				PeriodStart: current,
				PeriodEnd:   current.AddDate(0, 1, -1),
				PeriodLabel: GeneratePeriodLabel(current, GranularityMonthly),
			})
			current = current.AddDate(0, 1, 0)
		}

	case GranularityQuarterly:
		quarter := (int(startDate.Month()) - 1) / 3
		current := time.Date(startDate.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, loc)
		for !current.After(endDate) {
			periods = append(periods, PeriodInfo{
				Date:        current,
				PeriodStart: current,
				PeriodEnd:   current.AddDate(0, 3, -1),
				PeriodLabel: GeneratePeriodLabel(current, GranularityQuarterly),
			})
			current = current.AddDate(0, 3, 0)
		}
	}

	return periods
}

// GetPeriodKeyForDate returns a unique key for the period containing the date.
func GetPeriodKeyForDate(date time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeekly:
		return weekStart(date).Format("2006-01-02")
	case GranularityMonthly:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).Format("2006-01-02")
	case GranularityQuarterly:
		quarter := (int(date.Month()) - 1) / 3
		return time.Date(date.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, date.Location()).Format("2006-01-02")
	default:
		return date.Format("2006-01-02")
	}
}

// weekStart returns the Monday of the week containing the date.
func weekStart(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return time.Date(date.Year(), date.Month(), date.Day()-(weekday-1), 0, 0, 0, 0, date.Location())
}

// generateRangeLabel labels an arbitrary date range, collapsing to a month or
// quarter label when the range fits one.
func generateRangeLabel(startDate, endDate time.Time) string {
	if startDate.Year() == endDate.Year() && startDate.Month() == endDate.Month() {
		return GeneratePeriodLabel(startDate, GranularityMonthly)
	}

	startQuarter := (int(startDate.Month())-1)/3 + 1
	endQuarter := (int(endDate.Month())-1)/3 + 1
	if startDate.Year() == endDate.Year() && startQuarter == endQuarter {
		return GeneratePeriodLabel(startDate, GranularityQuarterly)
	}

	return fmt.Sprintf("%s - %s",
		GeneratePeriodLabel(startDate, GranularityMonthly),
		GeneratePeriodLabel(endDate, GranularityMonthly),
	)
}
