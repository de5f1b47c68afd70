package analytics

import (
	"context"
	"testing"
	"time"

	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/features/report"
	"go-worklog/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReportSource struct {
	reports  []report.Report
	calls    int
	lastDept string
	lastFrom string
	lastTo   string
	onFetch  func(m *mockReportSource)
}

func (m *mockReportSource) FindByDepartment(ctx context.Context, department, from, to string) ([]report.Report, error) {
	m.calls++
	m.lastDept, m.lastFrom, m.lastTo = department, from, to
	snapshot := append([]report.Report(nil), m.reports...)
	if m.onFetch != nil {
		m.onFetch(m)
	}
	return snapshot, nil
}

func (m *mockReportSource) FindByAuthor(ctx context.Context, authorID, from, to string, limit, skip int64) ([]report.Report, error) {
	m.calls++
	return m.reports, nil
}

func (m *mockReportSource) FindRange(ctx context.Context, from, to string) ([]report.Report, error) {
	m.calls++
	m.lastFrom, m.lastTo = from, to
	return m.reports, nil
}

type staticDepartments []string

func (s staticDepartments) Names(ctx context.Context) ([]string, error) { return s, nil }

type staticCount int64

func (c staticCount) Count(ctx context.Context) (int64, error) { return int64(c), nil }

var (
	adminCaller = &utils.UserClaims{UserID: "a1", Role: common_models.RoleAdmin, Department: "Engineering"}
	superCaller = &utils.UserClaims{UserID: "s1", Role: common_models.RoleSuperAdmin}
	empCaller   = &utils.UserClaims{UserID: "u1", Role: common_models.RoleEmployee, Department: "Engineering"}
)

func newTestService(src *mockReportSource) *AnalyticsServiceImpl {
	cfg := &config.Config{AnalyticsCacheSize: 16, AnalyticsCacheTTL: time.Minute, TopContributors: 3, Location: time.UTC}
	svc := NewAnalyticsService(src, staticDepartments{"Engineering", "Sales"}, staticCount(4), NewResultCache(cfg), zap.NewNop(), cfg).(*AnalyticsServiceImpl)
	svc.Now = func() time.Time { return now }
	return svc
}

func TestService_DepartmentScoping(t *testing.T) {
	tests := []struct {
		name     string
		caller   *utils.UserClaims
		dept     string
		wantDept string
		wantErr  error
	}{
		{"admin defaults to own", adminCaller, "", "Engineering", nil},
		{"admin own case-insensitive", adminCaller, "engineering", "Engineering", nil},
		{"admin other department", adminCaller, "Sales", "", ErrForbidden},
		{"superadmin must name one", superCaller, "", "", ErrInvalidArgument},
		{"superadmin any", superCaller, "Sales", "Sales", nil},
		{"employee refused", empCaller, "Engineering", "", ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockReportSource{}
			svc := newTestService(src)
			got, err := svc.Department(context.Background(), tt.caller, tt.dept, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDept, got.Department)
			assert.Equal(t, tt.wantDept, src.lastDept)
			assert.Equal(t, DefaultPeriod, got.Period)
		})
	}
}

func TestService_DepartmentFetchesPeriodRange(t *testing.T) {
	src := &mockReportSource{}
	svc := newTestService(src)

	_, err := svc.Department(context.Background(), adminCaller, "", "6m")
	require.NoError(t, err)
	assert.Equal(t, "2023-08-01", src.lastFrom)
	assert.Equal(t, "2024-01-15", src.lastTo)

	_, err = svc.Department(context.Background(), adminCaller, "", "5y")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_CachesUntilReportChanges(t *testing.T) {
	src := &mockReportSource{reports: []report.Report{rep("u1", "Ann", "Engineering", "2024-01-15", 8)}}
	svc := newTestService(src)

	first, err := svc.Department(context.Background(), adminCaller, "", "7d")
	require.NoError(t, err)
	second, err := svc.Department(context.Background(), adminCaller, "", "7d")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls)

	svc.Cache.ReportChanged(context.Background(), report.Report{})
	_, err = svc.Department(context.Background(), adminCaller, "", "7d")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	_, err = svc.Department(context.Background(), adminCaller, "", "30d")
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls, "a different period is a different key")
}

func TestService_WriteDuringComputeIsNotCached(t *testing.T) {
	src := &mockReportSource{reports: []report.Report{rep("u1", "Ann", "Engineering", "2024-01-15", 4)}}
	svc := newTestService(src)
	src.onFetch = func(m *mockReportSource) {
		// a report lands after the read but before the result is cached
		m.reports = []report.Report{rep("u1", "Ann", "Engineering", "2024-01-15", 8)}
		m.onFetch = nil
		svc.Cache.ReportChanged(context.Background(), m.reports[0])
	}

	first, err := svc.Department(context.Background(), adminCaller, "", "7d")
	require.NoError(t, err)
	assert.Equal(t, 4.0, first.TotalHours)
	assert.Zero(t, svc.Cache.Len())

	second, err := svc.Department(context.Background(), adminCaller, "", "7d")
	require.NoError(t, err)
	assert.Equal(t, 8.0, second.TotalHours)
	assert.Equal(t, 2, src.calls)
}

func TestService_CompanyIsSuperadminOnly(t *testing.T) {
	src := &mockReportSource{reports: []report.Report{
		rep("u1", "Ann", "Engineering", "2024-01-15", 8),
		rep("u2", "Ben", "Sales", "2024-01-14", 4),
	}}
	svc := newTestService(src)

	_, err := svc.Company(context.Background(), adminCaller, "7d", "all")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Company(context.Background(), superCaller, "", "")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, got.Scope)
	assert.Equal(t, 4, got.Stats.TotalEmployees)
	assert.Equal(t, 2, got.Stats.Departments)
	assert.Equal(t, 12.0, got.Stats.TotalHours)
	assert.NotNil(t, got.Compare)

	_, err = svc.Company(context.Background(), superCaller, "7d", "pie")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_Me(t *testing.T) {
	src := &mockReportSource{reports: []report.Report{rep("u1", "Ann", "Engineering", "2024-01-15", 8)}}
	svc := newTestService(src)

	got, err := svc.Me(context.Background(), empCaller, "30d")
	require.NoError(t, err)
	assert.True(t, got.SubmittedToday)
	assert.Len(t, got.Series, 30)
}

func TestService_ExportMatchesSummary(t *testing.T) {
	src := &mockReportSource{reports: []report.Report{rep("u1", "Ann", "Engineering", "2024-01-15", 8)}}
	svc := newTestService(src)

	file, err := svc.ExportDepartment(context.Background(), adminCaller, "", "7d", "csv")
	require.NoError(t, err)
	assert.Equal(t, "engineering-7d.csv", file.Filename)
	assert.Contains(t, string(file.Data), "2024-01-15,Jan 15,8")

	_, err = svc.ExportDepartment(context.Background(), adminCaller, "", "7d", "pdf")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
