package analytics

import (
	"fmt"
	"strings"
	"time"

	"go-worklog/internal/features/report"
)

// Period is a named analytics window
type Period string

const (
	Period7D  Period = "7d"
	Period30D Period = "30d"
	Period6M  Period = "6m"
	Period12M Period = "12m"
)

// DefaultPeriod is used when a request names none
const DefaultPeriod = Period7D

// Granularity is the bucket unit of a series
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// ParsePeriod accepts 7d, 30d, 6m or 12m (case-insensitive)
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, n := p.Window(); n == 0 {
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, s)
	}
	return p, nil
}

// Window returns the bucket unit and bucket count; unknown periods report a zero count.
func (p Period) Window() (Granularity, int) {
	switch p {
	case Period7D:
		return Daily, 7
	case Period30D:
		return Daily, 30
	case Period6M:
		return Monthly, 6
	case Period12M:
		return Monthly, 12
	}
	return "", 0
}

// Range returns the inclusive first and last report dates covered by p at now.
// Monthly windows start on the first day of the oldest month.
func (p Period) Range(now time.Time) (from, to string, err error) {
	unit, n := p.Window()
	if n == 0 {
		return "", "", fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, string(p))
	}
	day := startOfDay(now)
	to = report.Day(day)
	if unit == Daily {
		return report.Day(day.AddDate(0, 0, -(n - 1))), to, nil
	}
	return report.Day(startOfMonth(now).AddDate(0, -(n - 1), 0)), to, nil
}

// BuildSeries buckets per-day values into p's window ending at now
func (p Period) BuildSeries(values map[string]float64, now time.Time) (Series, error) {
	unit, n := p.Window()
	switch unit {
	case Daily:
		return BuildDailySeries(values, n, now)
	case Monthly:
		return BuildMonthlySeries(values, n, now)
	}
	return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, string(p))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
