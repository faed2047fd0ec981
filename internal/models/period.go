package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned for strings that are not in YYYY-MM form.
var ErrInvalidPeriod = errors.New("period must be formatted as YYYY-MM")

// Period is a calendar month used to scope aggregation queries.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod returns a normalized Period, so month 13 of 2024 becomes 2025-01.
func NewPeriod(year int, month time.Month) Period {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

// PeriodOf returns the Period in which t falls, in UTC.
func PeriodOf(t time.Time) Period {
	y, m, _ := t.UTC().Date()
	return Period{Year: y, Month: m}
}

// ParsePeriod parses a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

// String returns the period formatted as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Start is the first instant of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant after the period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// TrailingPeriods steps back from today in 30-day increments, truncates each
// step to its month and drops duplicates. It approximates "the last n
// months" and is not calendar exact.
func TrailingPeriods(today time.Time, n int) []Period {
	seen := make(map[Period]bool, n)
	periods := make([]Period, 0, n)
	for i := 1; i <= n; i++ {
		p := PeriodOf(today.AddDate(0, 0, -30*i))
		if seen[p] {
			continue
		}
		seen[p] = true
		periods = append(periods, p)
	}
	return periods
}
