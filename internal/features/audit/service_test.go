package audit

import (
	"context"
	"testing"
	"time"

	common_models "go-worklog/internal/common/models"
	"go-worklog/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuditRepo struct {
	created []common_models.AuditLog
	listed  []common_models.AuditLog
	filters map[string]interface{}
	limit   int64
	offset  int64
}

func (m *mockAuditRepo) Create(ctx context.Context, log common_models.AuditLog) error {
	m.created = append(m.created, log)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]common_models.AuditLog, error) {
	m.filters, m.limit, m.offset = filters, limit, offset
	return m.listed, nil
}

type mockUserFinder map[string]string

func (m mockUserFinder) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	return m, nil
}

func TestLogChange_UsesCallerFromContext(t *testing.T) {
	repo := &mockAuditRepo{}
	fixed := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc := &AuditServiceImpl{Repo: repo, UserRepo: mockUserFinder{}, Now: func() time.Time { return fixed }}

	ctx := context.WithValue(context.Background(), utils.UserClaimsKey, &utils.UserClaims{UserID: "u1"})
	err := svc.LogChange(ctx, common_models.AuditActionCreate, "reminders", "r1", nil)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "u1", repo.created[0].ActorID)
	assert.Equal(t, fixed, repo.created[0].Timestamp)

	require.NoError(t, svc.LogChange(context.Background(), common_models.AuditActionPurge, "reminders", "", nil))
	assert.Equal(t, "system", repo.created[1].ActorID)
}

func TestListLogs_ResolvesActorNames(t *testing.T) {
	repo := &mockAuditRepo{listed: []common_models.AuditLog{
		{ActorID: "u1"},
		{ActorID: "system"},
		{ActorID: "ghost"},
	}}
	svc := NewAuditService(repo, mockUserFinder{"u1": "Ann"})

	logs, err := svc.ListLogs(context.Background(), nil, 3, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(40), repo.offset)
	assert.Equal(t, "Ann", logs[0].ActorName)
	assert.Equal(t, "System", logs[1].ActorName)
	assert.Equal(t, "Unknown User", logs[2].ActorName)
}
