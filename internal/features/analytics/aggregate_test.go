package analytics

import (
	"testing"
	"time"

	"go-worklog/internal/features/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = date(2024, time.January, 15)

func rep(author, name, dept, day string, hours float64) report.Report {
	return report.Report{AuthorID: author, AuthorName: name, Department: dept, Date: day, Hours: hours, Content: "work"}
}

func TestAggregateDepartment_Empty(t *testing.T) {
	got, err := AggregateDepartment("Engineering", nil, Period7D, Options{Now: now})
	require.NoError(t, err)

	assert.Len(t, got.Series, 7)
	for _, p := range got.Series {
		assert.Zero(t, p.Value)
	}
	assert.Zero(t, got.TotalHours)
	assert.Zero(t, got.AvgHoursPerReport)
	assert.Zero(t, got.ReportsToday)
	assert.Zero(t, got.ActiveEmployeeCount)
	assert.NotNil(t, got.TopContributors)
	assert.Empty(t, got.TopContributors)
}

func TestAggregateDepartment_SameDayRecordsAreNotDeduplicated(t *testing.T) {
	reports := []report.Report{
		rep("u1", "Ann", "Engineering", "2024-01-15", 8),
		rep("u1", "Ann", "Engineering", "2024-01-15", 2),
	}
	got, err := AggregateDepartment("Engineering", reports, Period7D, Options{Now: now})
	require.NoError(t, err)

	assert.Equal(t, 10.0, got.TotalHours)
	assert.Equal(t, 2, got.ReportsToday)
	assert.Equal(t, 10.0, got.Series[6].Value)
	assert.Equal(t, 1, got.ActiveEmployeeCount)
}

func TestAggregateDepartment_TotalsCoverOnlyThePeriod(t *testing.T) {
	reports := []report.Report{
		rep("u1", "Ann", "Engineering", "2024-01-15", 6),
		rep("u2", "Ben", "engineering", "2024-01-10", 9),
		rep("u3", "Cat", "Engineering", "2024-01-01", 7), // before the 7d window
		rep("u4", "Dan", "Sales", "2024-01-15", 5),       // other department
		rep("u2", "Ben", "Engineering", "2024-01-12", 30),
	}
	got, err := AggregateDepartment("Engineering", reports, Period7D, Options{Now: now, TopN: 1})
	require.NoError(t, err)

	assert.Equal(t, 6.0+9+24, got.TotalHours)
	assert.Equal(t, 3, got.TotalReports)
	assert.Equal(t, 13.0, got.AvgHoursPerReport)
	assert.Equal(t, 1, got.ReportsToday)
	assert.Equal(t, 2, got.ActiveEmployeeCount)
	require.Len(t, got.TopContributors, 1)
	assert.Equal(t, RankingEntry{EntityID: "u2", EntityName: "Ben", TotalValue: 33, Reports: 2}, got.TopContributors[0])
}

func TestAggregateDepartment_DefaultsToFiveContributors(t *testing.T) {
	var reports []report.Report
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		reports = append(reports, rep(id, id, "Sales", "2024-01-14", float64(i+1)))
	}
	got, err := AggregateDepartment("Sales", reports, Period30D, Options{Now: now})
	require.NoError(t, err)

	require.Len(t, got.TopContributors, DefaultTopN)
	assert.Equal(t, "g", got.TopContributors[0].EntityID)
	assert.Len(t, got.Series, 30)
}

func TestAggregateDepartment_MonthlyPeriod(t *testing.T) {
	reports := []report.Report{
		rep("u1", "Ann", "HR", "2023-12-31", 4),
		rep("u1", "Ann", "HR", "2023-08-01", 2),
		rep("u1", "Ann", "HR", "2023-07-31", 1), // outside 6m
	}
	got, err := AggregateDepartment("HR", reports, Period6M, Options{Now: now})
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-08", "2023-09", "2023-10", "2023-11", "2023-12", "2024-01"}, got.Series.Keys())
	assert.Equal(t, []float64{2, 0, 0, 0, 4, 0}, got.Series.Values())
	assert.Equal(t, 6.0, got.TotalHours)
}

func TestAggregateDepartment_UnknownPeriod(t *testing.T) {
	_, err := AggregateDepartment("HR", nil, Period("3w"), Options{Now: now})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBreakdownDepartment(t *testing.T) {
	reports := []report.Report{
		rep("u1", "Ann", "Sales", "2024-01-15", 3),
		rep("u2", "Ben", "Sales", "2024-01-14", 8),
		rep("u3", "Cat", "Sales", "2024-01-13", 1),
	}

	table, err := BreakdownDepartment("Sales", reports, Period7D, 2, Options{Now: now})
	require.NoError(t, err)
	require.Len(t, table.Series, 2)
	assert.Equal(t, "Ben", table.Series[0].EntityName)
	assert.Equal(t, "Ann", table.Series[1].EntityName)
	assert.Len(t, table.Labels, 7)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 3}, table.Series[1].Points)

	all, err := BreakdownDepartment("Sales", reports, Period7D, 0, Options{Now: now})
	require.NoError(t, err)
	assert.Len(t, all.Series, 3)

	_, err = BreakdownDepartment("Sales", reports, Period7D, -1, Options{Now: now})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAggregateEmployee(t *testing.T) {
	reports := []report.Report{
		rep("me", "Me", "Sales", "2024-01-15", 7),
		rep("me", "Me", "Sales", "2024-01-11", 5),
		rep("other", "Other", "Sales", "2024-01-15", 8),
	}
	got, err := AggregateEmployee("me", reports, Period7D, Options{Now: now})
	require.NoError(t, err)

	assert.Equal(t, 12.0, got.TotalHours)
	assert.Equal(t, 2, got.ReportCount)
	assert.Equal(t, 6.0, got.AvgHoursPerReport)
	assert.True(t, got.SubmittedToday)
	assert.Len(t, got.Series, 7)
}

func TestAggregateCompany(t *testing.T) {
	in := CompanyInput{
		Departments:    []string{"Sales", "Engineering", "HR"},
		TotalEmployees: 12,
		Reports: []report.Report{
			rep("u1", "Ann", "Engineering", "2024-01-15", 8),
			rep("u2", "Ben", "engineering", "2024-01-14", 6),
			rep("u3", "Cat", "Sales", "2024-01-15", 4),
			rep("u4", "Dan", "Legal", "2024-01-13", 2),
		},
	}

	got, err := AggregateCompany(in, Period7D, ScopeAll, Options{Now: now})
	require.NoError(t, err)

	assert.Equal(t, CompanyStats{
		TotalEmployees: 12,
		ReportsToday:   2,
		Departments:    4,
		AvgHours:       5,
		TotalHours:     20,
	}, got.Stats)
	assert.Len(t, got.Series, 7)

	require.Len(t, got.Overview, 4)
	assert.Equal(t, "Engineering", got.Overview[0].Department)
	assert.Equal(t, 14.0, got.Overview[0].TotalHours)
	assert.Equal(t, 2, got.Overview[0].ActiveEmployees)
	assert.Equal(t, 1, got.Overview[0].ReportsToday)
	assert.Equal(t, "HR", got.Overview[3].Department)
	assert.Zero(t, got.Overview[3].Reports)

	require.NotNil(t, got.Compare)
	names := make([]string, len(got.Compare.Series))
	for i, s := range got.Compare.Series {
		names[i] = s.EntityName
		assert.Len(t, s.Points, 7)
	}
	assert.Equal(t, []string{"Sales", "Engineering", "HR", "Legal"}, names)
}

func TestAggregateCompany_Scopes(t *testing.T) {
	overview, err := AggregateCompany(CompanyInput{Departments: []string{"Sales"}}, Period7D, ScopeOverview, Options{Now: now})
	require.NoError(t, err)
	assert.NotNil(t, overview.Overview)
	assert.Nil(t, overview.Compare)

	compare, err := AggregateCompany(CompanyInput{}, Period12M, ScopeCompare, Options{Now: now})
	require.NoError(t, err)
	assert.Nil(t, compare.Overview)
	require.NotNil(t, compare.Compare)
	assert.Empty(t, compare.Compare.Series)
	assert.Len(t, compare.Series, 12)

	_, err = AggregateCompany(CompanyInput{}, Period7D, CompanyScope("everything"), Options{Now: now})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
