package analytics

import (
	"fmt"
	"sort"
)

// EntityTotal is an accumulated value for one employee or department
type EntityTotal struct {
	EntityID   string
	EntityName string
	TotalValue float64
	Reports    int
}

// RankingEntry is one row of a leaderboard
type RankingEntry struct {
	EntityID   string  `json:"entityId"`
	EntityName string  `json:"entityName"`
	TotalValue float64 `json:"totalValue"`
	Reports    int     `json:"reports"`
}

// Tally accumulates per-entity totals and remembers first-seen order
type Tally struct {
	index  map[string]int
	totals []EntityTotal
}

func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// Ensure registers id with a zero total if it is not already known
func (t *Tally) Ensure(id, name string) *EntityTotal {
	if i, ok := t.index[id]; ok {
		if t.totals[i].EntityName == "" {
			t.totals[i].EntityName = name
		}
		return &t.totals[i]
	}
	t.index[id] = len(t.totals)
	t.totals = append(t.totals, EntityTotal{EntityID: id, EntityName: name})
	return &t.totals[len(t.totals)-1]
}

// Add counts one report worth value for id
func (t *Tally) Add(id, name string, value float64) {
	e := t.Ensure(id, name)
	e.TotalValue += value
	e.Reports++
}

func (t *Tally) Len() int {
	return len(t.totals)
}

// Totals returns a copy in first-seen order
func (t *Tally) Totals() []EntityTotal {
	out := make([]EntityTotal, len(t.totals))
	copy(out, t.totals)
	return out
}

// RankEntities orders all totals by value, highest first. Ties keep input order.
func RankEntities(totals []EntityTotal) []RankingEntry {
	ranked := make([]RankingEntry, len(totals))
	for i, t := range totals {
		ranked[i] = RankingEntry(t)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalValue > ranked[j].TotalValue
	})
	return ranked
}

// TopEntities returns at most topN leaders
func TopEntities(totals []EntityTotal, topN int) ([]RankingEntry, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top must be positive, got %d", ErrInvalidArgument, topN)
	}
	ranked := RankEntities(totals)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// EntitySeries is one entity's aligned series for comparison
type EntitySeries struct {
	EntityID   string
	EntityName string
	Series     Series
}

// ComparisonSeries is one row of a ComparisonTable
type ComparisonSeries struct {
	EntityID   string    `json:"entityId"`
	EntityName string    `json:"entityName"`
	Points     []float64 `json:"points"`
	Total      float64   `json:"total"`
}

// ComparisonTable lines several series up against one label axis
type ComparisonTable struct {
	Labels []string           `json:"labels"`
	Keys   []string           `json:"keys"`
	Series []ComparisonSeries `json:"series"`
}

// BuildComparisonTable takes labels from the first series; all series must share its length.
func BuildComparisonTable(series []EntitySeries) (ComparisonTable, error) {
	table := ComparisonTable{
		Labels: []string{},
		Keys:   []string{},
		Series: []ComparisonSeries{},
	}
	if len(series) == 0 {
		return table, nil
	}

	width := len(series[0].Series)
	for _, s := range series {
		if len(s.Series) != width {
			return ComparisonTable{}, fmt.Errorf("%w: %q has %d points, expected %d",
				ErrMisalignedSeries, s.EntityName, len(s.Series), width)
		}
	}

	table.Labels = series[0].Series.Labels()
	table.Keys = series[0].Series.Keys()
	table.Series = make([]ComparisonSeries, 0, len(series))
	for _, s := range series {
		table.Series = append(table.Series, ComparisonSeries{
			EntityID:   s.EntityID,
			EntityName: s.EntityName,
			Points:     s.Series.Values(),
			Total:      s.Series.Total(),
		})
	}
	return table, nil
}
