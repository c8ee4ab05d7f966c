package reports

import (
	"testing"
	"time"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestGeneratePeriodLabel(t *testing.T) {
	cases := []struct {
		name        string
		date        time.Time
		granularity Granularity
		want        string
	}{
		{"weekly", date(2025, 3, 18), GranularityWeekly, "W12 2025"},
		{"monthly", date(2025, 3, 1), GranularityMonthly, "Mar 2025"},
		{"quarterly first", date(2025, 2, 10), GranularityQuarterly, "Q1 2025"},
		{"quarterly last", date(2025, 11, 1), GranularityQuarterly, "Q4 2025"},
		{"daily fallback", date(2025, 3, 5), GranularityDaily, "Mar 5, 2025"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GeneratePeriodLabel(tc.date, tc.granularity); got != tc.want {
				t.Errorf("GeneratePeriodLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGeneratePeriodSeries(t *testing.T) {
	t.Run("monthly series covers every month", func(t *testing.T) {
		periods := GeneratePeriodSeries(date(2025, 1, 15), date(2025, 4, 10), GranularityMonthly)
		if len(periods) != 4 {
			t.Fatalf("expected 4 periods, got %d", len(periods))
		}
		if !periods[0].Date.Equal(date(2025, 1, 1)) {
			t.Errorf("expected first period at Jan 1, got %s", periods[0].Date)
		}
		if periods[3].PeriodLabel != "Apr 2025" {
			t.Errorf("expected Apr 2025, got %q", periods[3].PeriodLabel)
		}
	})

	t.Run("weekly series starts on Monday", func(t *testing.T) {
		// 2025-03-05 is a Wednesday
		periods := GeneratePeriodSeries(date(2025, 3, 5), date(2025, 3, 20), GranularityWeekly)
		if len(periods) == 0 {
			t.Fatal("expected periods")
		}
		if periods[0].Date.Weekday() != time.Monday {
			t.Errorf("expected Monday start, got %s", periods[0].Date.Weekday())
		}
	})

	t.Run("quarterly series aligns to quarter starts", func(t *testing.T) {
		periods := GeneratePeriodSeries(date(2025, 2, 1), date(2025, 8, 1), GranularityQuarterly)
		if len(periods) != 3 {
			t.Fatalf("expected 3 quarters, got %d", len(periods))
		}
		if !periods[0].Date.Equal(date(2025, 1, 1)) {
			t.Errorf("expected Q1 start at Jan 1, got %s", periods[0].Date)
		}
	})
}

func TestGetPeriodKeyForDate(t *testing.T) {
	// Any day of March maps to the same monthly key
	first := GetPeriodKeyForDate(date(2025, 3, 3), GranularityMonthly)
	second := GetPeriodKeyForDate(date(2025, 3, 28), GranularityMonthly)
	if first != second || first != "2025-03-01" {
		t.Errorf("expected both keys 2025-03-01, got %q and %q", first, second)
	}

	// A Sunday belongs to the week of the preceding Monday
	key := GetPeriodKeyForDate(date(2025, 3, 9), GranularityWeekly)
	if key != "2025-03-03" {
		t.Errorf("expected week key 2025-03-03, got %q", key)
	}
}

func TestGenerateRangeLabel(t *testing.T) {
	if got := generateRangeLabel(date(2025, 3, 1), date(2025, 3, 31)); got != "Mar 2025" {
		t.Errorf("single month: got %q", got)
	}
	if got := generateRangeLabel(date(2025, 1, 1), date(2025, 3, 31)); got != "Q1 2025" {
		t.Errorf("single quarter: got %q", got)
	}
	if got := generateRangeLabel(date(2025, 1, 1), date(2025, 6, 30)); got != "Jan 2025 - Jun 2025" {
		t.Errorf("multi month: got %q", got)
	}
}
