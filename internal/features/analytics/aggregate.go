package analytics

import (
	"fmt"
	"strings"
	"time"

	"go-worklog/internal/features/report"
)

// DefaultTopN is the contributor count when Options.TopN is unset
const DefaultTopN = 5

// Options carries the reference instant and presentation knobs of an aggregation
type Options struct {
	Now  time.Time
	TopN int
}

func (o Options) topN() int {
	if o.TopN <= 0 {
		return DefaultTopN
	}
	return o.TopN
}

// DepartmentSummary is the department dashboard payload
type DepartmentSummary struct {
	Department          string         `json:"department"`
	Period              Period         `json:"period"`
	Series              Series         `json:"series"`
	TotalHours          float64        `json:"totalHours"`
	TotalReports        int            `json:"totalReports"`
	AvgHoursPerReport   float64        `json:"avgHoursPerReport"`
	ReportsToday        int            `json:"reportsToday"`
	ActiveEmployeeCount int            `json:"activeEmployeeCount"`
	TopContributors     []RankingEntry `json:"topContributors"`
}

// EmployeeSummary is the personal dashboard payload
type EmployeeSummary struct {
	AuthorID          string  `json:"authorId"`
	Period            Period  `json:"period"`
	Series            Series  `json:"series"`
	TotalHours        float64 `json:"totalHours"`
	ReportCount       int     `json:"reportCount"`
	AvgHoursPerReport float64 `json:"avgHoursPerReport"`
	SubmittedToday    bool    `json:"submittedToday"`
}

// CompanyScope selects which company sections are computed
type CompanyScope string

const (
	ScopeOverview CompanyScope = "overview"
	ScopeCompare  CompanyScope = "compare"
	ScopeAll      CompanyScope = "all"
)

// ParseCompanyScope defaults an empty value to ScopeAll
func ParseCompanyScope(s string) (CompanyScope, error) {
	switch scope := CompanyScope(strings.ToLower(strings.TrimSpace(s))); scope {
	case "":
		return ScopeAll, nil
	case ScopeOverview, ScopeCompare, ScopeAll:
		return scope, nil
	}
	return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidArgument, s)
}

// CompanyInput is everything the company aggregation reads
type CompanyInput struct {
	Reports        []report.Report
	Departments    []string
	TotalEmployees int
}

// CompanyStats are the headline numbers of the company dashboard
type CompanyStats struct {
	TotalEmployees int     `json:"totalEmployees"`
	ReportsToday   int     `json:"reportsToday"`
	Departments    int     `json:"departments"`
	AvgHours       float64 `json:"avgHours"`
	TotalHours     float64 `json:"totalHours"`
}

// DepartmentOverview is one department's row in the company overview
type DepartmentOverview struct {
	Department        string  `json:"department"`
	TotalHours        float64 `json:"totalHours"`
	Reports           int     `json:"reports"`
	ReportsToday      int     `json:"reportsToday"`
	ActiveEmployees   int     `json:"activeEmployees"`
	AvgHoursPerReport float64 `json:"avgHoursPerReport"`
}

// CompanySummary is the company dashboard payload
type CompanySummary struct {
	Period   Period               `json:"period"`
	Scope    CompanyScope         `json:"scope"`
	Stats    CompanyStats         `json:"stats"`
	Series   Series               `json:"series"`
	Overview []DepartmentOverview `json:"overview,omitempty"`
	Compare  *ComparisonTable     `json:"compare,omitempty"`
}

// window is the in-range slice of a report set with its bounds
type window struct {
	from, to, today string
	inRange         []report.Report
	reportsToday    int
}

func newWindow(reports []report.Report, period Period, now time.Time) (window, error) {
	from, to, err := period.Range(now)
	if err != nil {
		return window{}, err
	}
	w := window{from: from, to: to, today: report.Day(now)}
	for _, r := range reports {
		if r.Date == w.today {
			w.reportsToday++
		}
		if r.Date >= from && r.Date <= to {
			w.inRange = append(w.inRange, r)
		}
	}
	return w, nil
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func byDepartment(reports []report.Report, department string) []report.Report {
	if department == "" {
		return reports
	}
	out := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if strings.EqualFold(strings.TrimSpace(r.Department), department) {
			out = append(out, r)
		}
	}
	return out
}

// AggregateDepartment summarizes one department over period.
// Reports of other departments are ignored; ReportsToday looks only at opts.Now's day.
func AggregateDepartment(department string, reports []report.Report, period Period, opts Options) (DepartmentSummary, error) {
	department = strings.TrimSpace(department)
	w, err := newWindow(byDepartment(reports, department), period, opts.Now)
	if err != nil {
		return DepartmentSummary{}, err
	}

	tally := NewTally()
	var total float64
	for _, r := range w.inRange {
		h := report.ClampHours(r.Hours)
		total += h
		tally.Add(r.AuthorID, r.AuthorName, h)
	}

	series, err := period.BuildSeries(SumByDay(w.inRange), opts.Now)
	if err != nil {
		return DepartmentSummary{}, err
	}
	top, err := TopEntities(tally.Totals(), opts.topN())
	if err != nil {
		return DepartmentSummary{}, err
	}

	return DepartmentSummary{
		Department:          department,
		Period:              period,
		Series:              series,
		TotalHours:          total,
		TotalReports:        len(w.inRange),
		AvgHoursPerReport:   average(total, len(w.inRange)),
		ReportsToday:        w.reportsToday,
		ActiveEmployeeCount: tally.Len(),
		TopContributors:     top,
	}, nil
}

// BreakdownDepartment lines up per-employee series for a department.
// top limits the table to the highest totals; 0 keeps every employee.
func BreakdownDepartment(department string, reports []report.Report, period Period, top int, opts Options) (ComparisonTable, error) {
	if top < 0 {
		return ComparisonTable{}, fmt.Errorf("%w: top must not be negative, got %d", ErrInvalidArgument, top)
	}
	w, err := newWindow(byDepartment(reports, strings.TrimSpace(department)), period, opts.Now)
	if err != nil {
		return ComparisonTable{}, err
	}

	tally := NewTally()
	perAuthor := make(map[string][]report.Report)
	for _, r := range w.inRange {
		tally.Add(r.AuthorID, r.AuthorName, report.ClampHours(r.Hours))
		perAuthor[r.AuthorID] = append(perAuthor[r.AuthorID], r)
	}

	ranked := RankEntities(tally.Totals())
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	series := make([]EntitySeries, 0, len(ranked))
	for _, entry := range ranked {
		s, err := period.BuildSeries(SumByDay(perAuthor[entry.EntityID]), opts.Now)
		if err != nil {
			return ComparisonTable{}, err
		}
		series = append(series, EntitySeries{EntityID: entry.EntityID, EntityName: entry.EntityName, Series: s})
	}
	return BuildComparisonTable(series)
}

// AggregateEmployee summarizes one author's own reports
func AggregateEmployee(authorID string, reports []report.Report, period Period, opts Options) (EmployeeSummary, error) {
	own := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if r.AuthorID == authorID {
			own = append(own, r)
		}
	}
	w, err := newWindow(own, period, opts.Now)
	if err != nil {
		return EmployeeSummary{}, err
	}

	var total float64
	for _, r := range w.inRange {
		total += report.ClampHours(r.Hours)
	}
	series, err := period.BuildSeries(SumByDay(w.inRange), opts.Now)
	if err != nil {
		return EmployeeSummary{}, err
	}

	return EmployeeSummary{
		AuthorID:          authorID,
		Period:            period,
		Series:            series,
		TotalHours:        total,
		ReportCount:       len(w.inRange),
		AvgHoursPerReport: average(total, len(w.inRange)),
		SubmittedToday:    w.reportsToday > 0,
	}, nil
}

// AggregateCompany computes the company dashboard for the requested scope.
// Departments named in the input come first, then departments only seen on reports.
func AggregateCompany(in CompanyInput, period Period, scope CompanyScope, opts Options) (CompanySummary, error) {
	if scope == "" {
		scope = ScopeAll
	}
	if _, err := ParseCompanyScope(string(scope)); err != nil {
		return CompanySummary{}, err
	}
	w, err := newWindow(in.Reports, period, opts.Now)
	if err != nil {
		return CompanySummary{}, err
	}

	// Department identity is case-insensitive; the first spelling wins
	names := NewTally()
	for _, d := range in.Departments {
		if d = strings.TrimSpace(d); d != "" {
			names.Ensure(strings.ToLower(d), d)
		}
	}

	var total float64
	perDept := make(map[string][]report.Report)
	for _, r := range w.inRange {
		h := report.ClampHours(r.Hours)
		total += h
		d := strings.TrimSpace(r.Department)
		if d == "" {
			continue
		}
		key := strings.ToLower(d)
		names.Add(key, d, h)
		perDept[key] = append(perDept[key], r)
	}

	todayByDept := make(map[string]int)
	for _, r := range in.Reports {
		if r.Date == w.today {
			todayByDept[strings.ToLower(strings.TrimSpace(r.Department))]++
		}
	}
	for key := range todayByDept {
		if key != "" {
			names.Ensure(key, key)
		}
	}

	series, err := period.BuildSeries(SumByDay(w.inRange), opts.Now)
	if err != nil {
		return CompanySummary{}, err
	}

	summary := CompanySummary{
		Period: period,
		Scope:  scope,
		Stats: CompanyStats{
			TotalEmployees: in.TotalEmployees,
			ReportsToday:   w.reportsToday,
			Departments:    names.Len(),
			AvgHours:       average(total, len(w.inRange)),
			TotalHours:     total,
		},
		Series: series,
	}

	if scope == ScopeOverview || scope == ScopeAll {
		summary.Overview = make([]DepartmentOverview, 0, names.Len())
		for _, entry := range RankEntities(names.Totals()) {
			authors := make(map[string]struct{})
			for _, r := range perDept[entry.EntityID] {
				authors[r.AuthorID] = struct{}{}
			}
			summary.Overview = append(summary.Overview, DepartmentOverview{
				Department:        entry.EntityName,
				TotalHours:        entry.TotalValue,
				Reports:           entry.Reports,
				ReportsToday:      todayByDept[entry.EntityID],
				ActiveEmployees:   len(authors),
				AvgHoursPerReport: average(entry.TotalValue, entry.Reports),
			})
		}
	}

	if scope == ScopeCompare || scope == ScopeAll {
		rows := make([]EntitySeries, 0, names.Len())
		for _, d := range names.Totals() {
			s, err := period.BuildSeries(SumByDay(perDept[d.EntityID]), opts.Now)
			if err != nil {
				return CompanySummary{}, err
			}
			rows = append(rows, EntitySeries{EntityID: d.EntityID, EntityName: d.EntityName, Series: s})
		}
		table, err := BuildComparisonTable(rows)
		if err != nil {
			return CompanySummary{}, err
		}
		summary.Compare = &table
	}

	return summary, nil
}
