package report

import (
	"context"
	"strings"
	"testing"
	"time"

	common_models "go-worklog/internal/common/models"
	"go-worklog/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type MockReportRepo struct {
	stored         map[string]Report
	lastLimit      int64
	lastSkip       int64
	lastDepartment string
	lastSearch     SearchQuery
}

func newMockRepo() *MockReportRepo {
	return &MockReportRepo{stored: map[string]Report{}}
}

func (m *MockReportRepo) Upsert(ctx context.Context, r *Report) (*Report, error) {
	key := r.AuthorID + "|" + r.Date
	saved := *r
	if prev, ok := m.stored[key]; ok {
		saved.ID = prev.ID
		saved.CreatedAt = prev.CreatedAt
	} else {
		saved.ID = primitive.NewObjectID()
		saved.CreatedAt = r.UpdatedAt
	}
	m.stored[key] = saved
	return &saved, nil
}

func (m *MockReportRepo) FindOne(ctx context.Context, authorID, date string) (*Report, error) {
	if r, ok := m.stored[authorID+"|"+date]; ok {
		return &r, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockReportRepo) FindByDepartment(ctx context.Context, department, from, to string) ([]Report, error) {
	return nil, nil
}

func (m *MockReportRepo) FindByAuthor(ctx context.Context, authorID, from, to string, limit, skip int64) ([]Report, error) {
	m.lastLimit, m.lastSkip = limit, skip
	return []Report{}, nil
}

func (m *MockReportRepo) FindByDate(ctx context.Context, date, department string) ([]Report, error) {
	m.lastDepartment = department
	var out []Report
	for _, r := range m.stored {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockReportRepo) FindRange(ctx context.Context, from, to string) ([]Report, error) {
	return nil, nil
}

func (m *MockReportRepo) Search(ctx context.Context, q SearchQuery) ([]Report, error) {
	m.lastSearch = q
	return []Report{}, nil
}

type MockDirectory map[string]Employee

func (m MockDirectory) Employee(ctx context.Context, id string) (*Employee, error) {
	if e, ok := m[id]; ok {
		return &e, nil
	}
	return nil, ErrNotFound
}

func (m MockDirectory) EmployeesIn(ctx context.Context, department string) ([]Employee, error) {
	var out []Employee
	for _, id := range []string{"u1", "u2", "u3"} {
		if e, ok := m[id]; ok && (department == "" || strings.EqualFold(e.Department, department)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type MockAuditService struct {
	changes []map[string]common_models.Change
}

func (m *MockAuditService) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.changes = append(m.changes, changes)
	return nil
}

func (m *MockAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return []common_models.AuditLog{}, nil
}

type recordingListener struct {
	seen []Report
}

func (l *recordingListener) ReportChanged(ctx context.Context, r Report) {
	l.seen = append(l.seen, r)
}

var (
	employee = &utils.UserClaims{UserID: "u1", Role: common_models.RoleEmployee, Department: "Engineering"}
	admin    = &utils.UserClaims{UserID: "u2", Role: common_models.RoleAdmin, Department: "Engineering"}
	super    = &utils.UserClaims{UserID: "u9", Role: common_models.RoleSuperAdmin}
)

func newService(repo *MockReportRepo) (*ReportServiceImpl, *MockAuditService, *recordingListener) {
	audit := &MockAuditService{}
	listener := &recordingListener{}
	svc := &ReportServiceImpl{
		Repo: repo,
		Directory: MockDirectory{
			"u1": {ID: "u1", Name: "Ann", Department: "Engineering"},
			"u2": {ID: "u2", Name: "Ben", Department: "Engineering"},
			"u3": {ID: "u3", Name: "Cat", Department: "Sales"},
		},
		AuditService: audit,
		Listeners:    []ChangeListener{listener},
		Logger:       zap.NewNop(),
		Location:     time.UTC,
		Now:          func() time.Time { return time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC) },
	}
	return svc, audit, listener
}

func TestSubmit_UpsertsTodaysReport(t *testing.T) {
	repo := newMockRepo()
	svc, audit, listener := newService(repo)

	first, err := svc.Submit(context.Background(), employee, SubmitRequest{Content: "  wrote tests  ", Hours: 30})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, "wrote tests", first.Content)
	assert.Equal(t, 24.0, first.Hours)
	assert.Equal(t, "Ann", first.AuthorName)
	assert.Equal(t, "Engineering", first.Department)

	second, err := svc.Submit(context.Background(), employee, SubmitRequest{Content: "fixed bug", Hours: 6})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.stored, 1)

	require.Len(t, audit.changes, 2)
	assert.Equal(t, 24.0, audit.changes[1]["hours"].Old)
	assert.Equal(t, 6.0, audit.changes[1]["hours"].New)
	assert.Len(t, listener.seen, 2)
}

func TestSubmit_UsesConfiguredCalendar(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newService(repo)
	svc.Location = time.FixedZone("UTC+3", 3*60*60)

	saved, err := svc.Submit(context.Background(), employee, SubmitRequest{Content: "late night", Hours: 1})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", saved.Date)
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, listener := newService(newMockRepo())

	_, err := svc.Submit(context.Background(), employee, SubmitRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), employee, SubmitRequest{Content: strings.Repeat("ç", MaxContentLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), employee, SubmitRequest{Content: strings.Repeat("ç", MaxContentLength)})
	assert.NoError(t, err)
	assert.Len(t, listener.seen, 1)
}

func TestToday_NoReport(t *testing.T) {
	svc, _, _ := newService(newMockRepo())
	r, err := svc.Today(context.Background(), employee)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestHistory_ClampsLimit(t *testing.T) {
	tests := []struct {
		limit, skip         int64
		wantLimit, wantSkip int64
	}{
		{0, 0, 50, 0},
		{10, 5, 10, 5},
		{500, -3, 50, 0},
		{200, 0, 200, 0},
	}
	for _, tt := range tests {
		repo := newMockRepo()
		svc, _, _ := newService(repo)
		_, err := svc.History(context.Background(), employee, tt.limit, tt.skip)
		require.NoError(t, err)
		assert.Equal(t, tt.wantLimit, repo.lastLimit)
		assert.Equal(t, tt.wantSkip, repo.lastSkip)
	}
}

func TestSearch_ScopesAdminsToOwnDepartment(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newService(repo)

	_, err := svc.Search(context.Background(), admin, SearchQuery{Text: "bug", Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", repo.lastSearch.Department)

	_, err = svc.Search(context.Background(), super, SearchQuery{Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, "Sales", repo.lastSearch.Department)

	_, err = svc.Search(context.Background(), employee, SearchQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Search(context.Background(), super, SearchQuery{From: "2024-02-01", To: "2024-01-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestByUser_AdminCannotReadOtherDepartments(t *testing.T) {
	svc, _, _ := newService(newMockRepo())

	_, err := svc.ByUser(context.Background(), admin, "u3", "", "", 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ByUser(context.Background(), admin, "u1", "", "", 0, 0)
	assert.NoError(t, err)

	_, err = svc.ByUser(context.Background(), super, "nobody", "", "", 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatus(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newService(repo)
	_, err := svc.Submit(context.Background(), employee, SubmitRequest{Content: "done", Hours: 8})
	require.NoError(t, err)

	sheet, err := svc.Status(context.Background(), admin, "Sales", "")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", sheet.Department)
	assert.Equal(t, "2024-01-15", sheet.Date)
	assert.Equal(t, 2, sheet.TotalUsers)
	assert.Equal(t, 1, sheet.WithReports)
	require.Len(t, sheet.Items, 2)
	assert.True(t, sheet.Items[0].HasReport)
	assert.False(t, sheet.Items[1].HasReport)

	_, err = svc.Status(context.Background(), super, "", "15/01/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
