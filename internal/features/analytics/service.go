package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/features/report"
	"go-worklog/pkg/utils"

	"go.uber.org/zap"
)

var ErrForbidden = errors.New("forbidden")

// ReportSource is the read side of the report store
type ReportSource interface {
	FindByDepartment(ctx context.Context, department, from, to string) ([]report.Report, error)
	FindByAuthor(ctx context.Context, authorID, from, to string, limit, skip int64) ([]report.Report, error)
	FindRange(ctx context.Context, from, to string) ([]report.Report, error)
}

// DepartmentSource lists known department names
type DepartmentSource interface {
	Names(ctx context.Context) ([]string, error)
}

// EmployeeCounter counts registered employees
type EmployeeCounter interface {
	Count(ctx context.Context) (int64, error)
}

type AnalyticsService interface {
	Department(ctx context.Context, caller *utils.UserClaims, department, period string) (*DepartmentSummary, error)
	Breakdown(ctx context.Context, caller *utils.UserClaims, department, period string, top int) (*ComparisonTable, error)
	Me(ctx context.Context, caller *utils.UserClaims, period string) (*EmployeeSummary, error)
	Company(ctx context.Context, caller *utils.UserClaims, period, scope string) (*CompanySummary, error)
	ExportDepartment(ctx context.Context, caller *utils.UserClaims, department, period, format string) (*ExportFile, error)
}

type AnalyticsServiceImpl struct {
	Reports     ReportSource
	Departments DepartmentSource
	Employees   EmployeeCounter
	Cache       *ResultCache
	Logger      *zap.Logger
	TopN        int
	Location    *time.Location
	Now         func() time.Time
}

func NewAnalyticsService(
	reports ReportSource,
	departments DepartmentSource,
	employees EmployeeCounter,
	cache *ResultCache,
	logger *zap.Logger,
	cfg *config.Config,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		Reports:     reports,
		Departments: departments,
		Employees:   employees,
		Cache:       cache,
		Logger:      logger,
		TopN:        cfg.TopContributors,
		Location:    cfg.Location,
		Now:         time.Now,
	}
}

func (s *AnalyticsServiceImpl) options() Options {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return Options{Now: s.Now().In(loc), TopN: s.TopN}
}

func parsePeriodOrDefault(raw string) (Period, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPeriod, nil
	}
	return ParsePeriod(raw)
}

// resolveDepartment applies the department rule for analytics:
// admins get their own department, superadmins must name one, employees are refused.
func resolveDepartment(caller *utils.UserClaims, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	switch common_models.NormalizeRole(caller.Role) {
	case common_models.RoleAdmin:
		own := strings.TrimSpace(caller.Department)
		if own == "" {
			return "", fmt.Errorf("%w: user has no department", ErrInvalidArgument)
		}
		if requested != "" && !strings.EqualFold(requested, own) {
			return "", ErrForbidden
		}
		return own, nil
	case common_models.RoleSuperAdmin:
		if requested == "" {
			return "", fmt.Errorf("%w: department is required", ErrInvalidArgument)
		}
		return requested, nil
	}
	return "", ErrForbidden
}

// cached runs compute unless the key already holds a result
func cached[T any](s *AnalyticsServiceImpl, key cacheKey, compute func() (T, error)) (T, error) {
	if v, ok := s.Cache.Get(key.String()); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := s.Cache.Generation()
	result, err := compute()
	if err != nil {
		return result, err
	}
	s.Cache.StoreAt(gen, key.String(), result)
	return result, nil
}

func (s *AnalyticsServiceImpl) Department(ctx context.Context, caller *utils.UserClaims, department, period string) (*DepartmentSummary, error) {
	p, err := parsePeriodOrDefault(period)
	if err != nil {
		return nil, err
	}
	dept, err := resolveDepartment(caller, department)
	if err != nil {
		return nil, err
	}
	opts := s.options()

	key := cacheKey{kind: "department", subject: dept, period: p, top: opts.topN(), day: report.Day(opts.Now)}
	return cached(s, key, func() (*DepartmentSummary, error) {
		from, to, err := p.Range(opts.Now)
		if err != nil {
			return nil, err
		}
		reports, err := s.Reports.FindByDepartment(ctx, dept, from, to)
		if err != nil {
			return nil, err
		}
		summary, err := AggregateDepartment(dept, reports, p, opts)
		if err != nil {
			return nil, err
		}
		return &summary, nil
	})
}

func (s *AnalyticsServiceImpl) Breakdown(ctx context.Context, caller *utils.UserClaims, department, period string, top int) (*ComparisonTable, error) {
	p, err := parsePeriodOrDefault(period)
	if err != nil {
		return nil, err
	}
	dept, err := resolveDepartment(caller, department)
	if err != nil {
		return nil, err
	}
	opts := s.options()

	key := cacheKey{kind: "breakdown", subject: dept, period: p, top: top, day: report.Day(opts.Now)}
	return cached(s, key, func() (*ComparisonTable, error) {
		from, to, err := p.Range(opts.Now)
		if err != nil {
			return nil, err
		}
		reports, err := s.Reports.FindByDepartment(ctx, dept, from, to)
		if err != nil {
			return nil, err
		}
		table, err := BreakdownDepartment(dept, reports, p, top, opts)
		if err != nil {
			return nil, err
		}
		return &table, nil
	})
}

func (s *AnalyticsServiceImpl) Me(ctx context.Context, caller *utils.UserClaims, period string) (*EmployeeSummary, error) {
	p, err := parsePeriodOrDefault(period)
	if err != nil {
		return nil, err
	}
	opts := s.options()

	key := cacheKey{kind: "me", subject: caller.UserID, period: p, day: report.Day(opts.Now)}
	return cached(s, key, func() (*EmployeeSummary, error) {
		from, to, err := p.Range(opts.Now)
		if err != nil {
			return nil, err
		}
		reports, err := s.Reports.FindByAuthor(ctx, caller.UserID, from, to, 0, 0)
		if err != nil {
			return nil, err
		}
		summary, err := AggregateEmployee(caller.UserID, reports, p, opts)
		if err != nil {
			return nil, err
		}
		return &summary, nil
	})
}

func (s *AnalyticsServiceImpl) Company(ctx context.Context, caller *utils.UserClaims, period, scope string) (*CompanySummary, error) {
	if common_models.NormalizeRole(caller.Role) != common_models.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	p, err := parsePeriodOrDefault(period)
	if err != nil {
		return nil, err
	}
	sc, err := ParseCompanyScope(scope)
	if err != nil {
		return nil, err
	}
	opts := s.options()

	key := cacheKey{kind: "company", period: p, scope: sc, day: report.Day(opts.Now)}
	return cached(s, key, func() (*CompanySummary, error) {
		from, to, err := p.Range(opts.Now)
		if err != nil {
			return nil, err
		}
		reports, err := s.Reports.FindRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		names, err := s.Departments.Names(ctx)
		if err != nil {
			return nil, err
		}
		employees, err := s.Employees.Count(ctx)
		if err != nil {
			return nil, err
		}

		summary, err := AggregateCompany(CompanyInput{
			Reports:        reports,
			Departments:    names,
			TotalEmployees: int(employees),
		}, p, sc, opts)
		if err != nil {
			return nil, err
		}
		return &summary, nil
	})
}

func (s *AnalyticsServiceImpl) ExportDepartment(ctx context.Context, caller *utils.UserClaims, department, period, format string) (*ExportFile, error) {
	f, err := ParseExportFormat(format)
	if err != nil {
		return nil, err
	}
	summary, err := s.Department(ctx, caller, department, period)
	if err != nil {
		return nil, err
	}
	file, err := ExportDepartment(*summary, f)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("department exported",
		zap.String("userId", caller.UserID),
		zap.String("department", summary.Department),
		zap.String("format", string(f)),
	)
	return file, nil
}
