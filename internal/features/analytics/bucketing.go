package analytics

import (
	"fmt"
	"time"

	"go-worklog/internal/features/report"
)

const (
	monthKeyLayout   = "2006-01"
	dailyLabelLayout = "Jan 02"
	monthLabelLayout = "Jan 06"
)

// SeriesPoint is one bucket of a time series
type SeriesPoint struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is ordered oldest bucket first
type Series []SeriesPoint

func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Label
	}
	return out
}

func (s Series) Keys() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Key
	}
	return out
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

func (s Series) Total() float64 {
	var total float64
	for _, p := range s {
		total += p.Value
	}
	return total
}

// BuildDailySeries returns exactly windowDays buckets ending on anchor's calendar day.
// Days absent from values are zero.
func BuildDailySeries(values map[string]float64, windowDays int, anchor time.Time) (Series, error) {
	if windowDays < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1 day, got %d", ErrInvalidArgument, windowDays)
	}

	end := startOfDay(anchor)
	series := make(Series, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		key := day.Format(report.DateLayout)
		series = append(series, SeriesPoint{
			Key:   key,
			Label: day.Format(dailyLabelLayout),
			Value: values[key],
		})
	}
	return series, nil
}

// BuildMonthlySeries returns exactly windowMonths calendar-month buckets ending on anchor's month.
// Keys of values may be days ("YYYY-MM-DD") or months ("YYYY-MM").
func BuildMonthlySeries(values map[string]float64, windowMonths int, anchor time.Time) (Series, error) {
	if windowMonths < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1 month, got %d", ErrInvalidArgument, windowMonths)
	}

	byMonth := make(map[string]float64, len(values))
	for key, v := range values {
		if len(key) < len(monthKeyLayout) {
			continue
		}
		byMonth[key[:len(monthKeyLayout)]] += v
	}

	// Stepping from the 1st keeps e.g. Mar 31 minus one month in February
	end := startOfMonth(anchor)
	series := make(Series, 0, windowMonths)
	for i := windowMonths - 1; i >= 0; i-- {
		month := end.AddDate(0, -i, 0)
		key := month.Format(monthKeyLayout)
		series = append(series, SeriesPoint{
			Key:   key,
			Label: month.Format(monthLabelLayout),
			Value: byMonth[key],
		})
	}
	return series, nil
}

// SumByDay totals clamped hours per report date
func SumByDay(reports []report.Report) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range reports {
		out[r.Date] += report.ClampHours(r.Hours)
	}
	return out
}
