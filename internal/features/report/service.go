package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/features/audit"
	"go-worklog/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Directory looks up the people reports belong to
type Directory interface {
	Employee(ctx context.Context, id string) (*Employee, error)
	EmployeesIn(ctx context.Context, department string) ([]Employee, error)
}

// ChangeListener is told about every stored report
type ChangeListener interface {
	ReportChanged(ctx context.Context, r Report)
}

// StatusSheet lists who in a department filed a report on Date
type StatusSheet struct {
	Date        string      `json:"date"`
	Department  string      `json:"department"`
	Items       []StatusRow `json:"items"`
	TotalUsers  int         `json:"totalUsers"`
	WithReports int         `json:"withReports"`
}

type ReportService interface {
	Submit(ctx context.Context, caller *utils.UserClaims, req SubmitRequest) (*Report, error)
	Today(ctx context.Context, caller *utils.UserClaims) (*Report, error)
	History(ctx context.Context, caller *utils.UserClaims, limit, skip int64) ([]Report, error)
	ByDay(ctx context.Context, caller *utils.UserClaims, date string) (string, []Report, error)
	ByUser(ctx context.Context, caller *utils.UserClaims, userID, from, to string, limit, skip int64) ([]Report, error)
	Search(ctx context.Context, caller *utils.UserClaims, q SearchQuery) ([]Report, error)
	Status(ctx context.Context, caller *utils.UserClaims, department, date string) (*StatusSheet, error)
}

type ReportServiceImpl struct {
	Repo         ReportRepository
	Directory    Directory
	AuditService audit.AuditService
	Listeners    []ChangeListener
	Logger       *zap.Logger
	Location     *time.Location
	Now          func() time.Time
}

func NewReportService(
	repo ReportRepository,
	directory Directory,
	auditService audit.AuditService,
	listener ChangeListener,
	logger *zap.Logger,
	cfg *config.Config,
) ReportService {
	return &ReportServiceImpl{
		Repo:         repo,
		Directory:    directory,
		AuditService: auditService,
		Listeners:    []ChangeListener{listener},
		Logger:       logger,
		Location:     cfg.Location,
		Now:          time.Now,
	}
}

func (s *ReportServiceImpl) today() string {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return Day(s.Now().In(loc))
}

// Submit stores the caller's report for today, replacing an earlier one from the same day
func (s *ReportServiceImpl) Submit(ctx context.Context, caller *utils.UserClaims, req SubmitRequest) (*Report, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, MaxContentLength)
	}

	author, err := s.Directory.Employee(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	date := s.today()
	previous, err := s.Repo.FindOne(ctx, caller.UserID, date)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	saved, err := s.Repo.Upsert(ctx, &Report{
		AuthorID:   caller.UserID,
		AuthorName: author.Name,
		Role:       common_models.NormalizeRole(caller.Role),
		Department: author.Department,
		Date:       date,
		Hours:      ClampHours(req.Hours),
		Content:    content,
		UpdatedAt:  s.Now(),
	})
	if err != nil {
		return nil, err
	}

	change := common_models.Change{New: saved.Hours}
	if previous != nil {
		change.Old = previous.Hours
	}
	if err := s.AuditService.LogChange(ctx, common_models.AuditActionReport, "reports", saved.ID.Hex(), map[string]common_models.Change{
		"hours": change,
	}); err != nil {
		s.Logger.Warn("audit write failed", zap.Error(err), zap.String("userId", caller.UserID))
	}

	for _, l := range s.Listeners {
		if l != nil {
			l.ReportChanged(ctx, *saved)
		}
	}
	return saved, nil
}

// Today returns nil without error when the caller has not reported yet
func (s *ReportServiceImpl) Today(ctx context.Context, caller *utils.UserClaims) (*Report, error) {
	r, err := s.Repo.FindOne(ctx, caller.UserID, s.today())
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	return r, err
}

func (s *ReportServiceImpl) History(ctx context.Context, caller *utils.UserClaims, limit, skip int64) ([]Report, error) {
	return s.Repo.FindByAuthor(ctx, caller.UserID, "", "", clampLimit(limit), max(skip, 0))
}

// ByDay lists a day's reports; admins only see their own department
func (s *ReportServiceImpl) ByDay(ctx context.Context, caller *utils.UserClaims, date string) (string, []Report, error) {
	date, err := s.dayOrToday(date)
	if err != nil {
		return "", nil, err
	}
	department, err := scopedDepartment(caller, "")
	if err != nil {
		return "", nil, err
	}
	reports, err := s.Repo.FindByDate(ctx, date, department)
	return date, reports, err
}

func (s *ReportServiceImpl) ByUser(ctx context.Context, caller *utils.UserClaims, userID, from, to string, limit, skip int64) ([]Report, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	target, err := s.Directory.Employee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := scopedDepartment(caller, ""); err != nil {
		return nil, err
	}
	if common_models.NormalizeRole(caller.Role) == common_models.RoleAdmin && !sameDepartment(caller.Department, target.Department) {
		return nil, ErrForbidden
	}
	return s.Repo.FindByAuthor(ctx, userID, from, to, clampLimit(limit), max(skip, 0))
}

func (s *ReportServiceImpl) Search(ctx context.Context, caller *utils.UserClaims, q SearchQuery) ([]Report, error) {
	if err := validateRange(q.From, q.To); err != nil {
		return nil, err
	}
	department, err := scopedDepartment(caller, q.Department)
	if err != nil {
		return nil, err
	}
	q.Department = department
	return s.Repo.Search(ctx, q)
}

// Status reports who filed a report on date. Admins are pinned to their own department.
func (s *ReportServiceImpl) Status(ctx context.Context, caller *utils.UserClaims, department, date string) (*StatusSheet, error) {
	date, err := s.dayOrToday(date)
	if err != nil {
		return nil, err
	}
	department, err = scopedDepartment(caller, department)
	if err != nil {
		return nil, err
	}

	employees, err := s.Directory.EmployeesIn(ctx, department)
	if err != nil {
		return nil, err
	}
	reports, err := s.Repo.FindByDate(ctx, date, department)
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[string]Report, len(reports))
	for _, r := range reports {
		byAuthor[r.AuthorID] = r
	}

	sheet := &StatusSheet{
		Date:       date,
		Department: department,
		Items:      make([]StatusRow, 0, len(employees)),
		TotalUsers: len(employees),
	}
	for _, e := range employees {
		row := StatusRow{UserID: e.ID, Name: e.Name, Department: e.Department}
		if r, ok := byAuthor[e.ID]; ok {
			row.HasReport = true
			row.Report = &r
			sheet.WithReports++
		}
		sheet.Items = append(sheet.Items, row)
	}
	return sheet, nil
}

func (s *ReportServiceImpl) dayOrToday(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.today(), nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return date, nil
}

// scopedDepartment applies the department rule for admin views:
// admins always get their own department, superadmins get what they asked for.
func scopedDepartment(caller *utils.UserClaims, requested string) (string, error) {
	switch common_models.NormalizeRole(caller.Role) {
	case common_models.RoleSuperAdmin:
		return strings.TrimSpace(requested), nil
	case common_models.RoleAdmin:
		own := strings.TrimSpace(caller.Department)
		if own == "" {
			return "", fmt.Errorf("%w: admin has no department", ErrForbidden)
		}
		return own, nil
	}
	return "", ErrForbidden
}

func sameDepartment(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func validateRange(from, to string) error {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if from != "" && to != "" && from > to {
		return fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}
	return nil
}

func clampLimit(limit int64) int64 {
	if limit <= 0 || limit > MaxHistoryLimit {
		return DefaultHistoryLimit
	}
	return limit
}
