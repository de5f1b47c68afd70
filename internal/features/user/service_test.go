package user

import (
	"context"
	"strings"
	"testing"

	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/features/report"
	"go-worklog/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockUserRepo struct {
	users          []User
	lastDepartment string
}

func (m *MockUserRepo) Create(ctx context.Context, u *User) error {
	u.ID = primitive.NewObjectID()
	m.users = append(m.users, *u)
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	for _, u := range m.users {
		if u.ID.Hex() == id {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockUserRepo) FindByIDs(ctx context.Context, ids []string) ([]User, error) {
	var out []User
	for _, id := range ids {
		if u, err := m.FindByID(ctx, id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *MockUserRepo) ListByDepartment(ctx context.Context, department string) ([]User, error) {
	m.lastDepartment = department
	var out []User
	for _, u := range m.users {
		if department == "" || strings.EqualFold(u.Department, department) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *MockUserRepo) DistinctDepartments(ctx context.Context) ([]string, error) {
	return nil, nil
}

func seededRepo() *MockUserRepo {
	repo := &MockUserRepo{}
	for _, u := range []User{
		{Name: "Ann", Email: "ann@example.com", Role: common_models.RoleAdmin, Department: "Sales", PasswordHash: "x"},
		{Name: "Bob", Email: "bob@example.com", Role: common_models.RoleEmployee, Department: "sales"},
		{Name: "Cid", Email: "cid@example.com", Role: common_models.RoleEmployee, Department: "HR"},
	} {
		u := u
		_ = repo.Create(context.Background(), &u)
	}
	return repo
}

func TestMe(t *testing.T) {
	repo := seededRepo()
	svc := NewUserService(repo)

	p, err := svc.Me(context.Background(), repo.users[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, "Sales", p.Department)

	_, err = svc.Me(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByDepartment_Scoping(t *testing.T) {
	repo := seededRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	admin := &utils.UserClaims{UserID: "a1", Role: common_models.RoleAdmin, Department: "Sales"}
	dept, list, err := svc.ListByDepartment(ctx, admin, "HR")
	require.NoError(t, err)
	assert.Equal(t, "Sales", dept)
	assert.Len(t, list, 2)

	super := &utils.UserClaims{UserID: "s1", Role: common_models.RoleSuperAdmin}
	dept, list, err = svc.ListByDepartment(ctx, super, " HR ")
	require.NoError(t, err)
	assert.Equal(t, "HR", dept)
	assert.Len(t, list, 1)

	_, list, err = svc.ListByDepartment(ctx, super, "")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	employee := &utils.UserClaims{UserID: "e1", Role: common_models.RoleEmployee, Department: "Sales"}
	_, _, err = svc.ListByDepartment(ctx, employee, "Sales")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNamesByIDs(t *testing.T) {
	repo := seededRepo()
	svc := NewUserService(repo)

	names, err := svc.NamesByIDs(context.Background(), []string{repo.users[1].ID.Hex(), "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{repo.users[1].ID.Hex(): "Bob"}, names)
}

func TestReportDirectory(t *testing.T) {
	repo := seededRepo()
	dir := NewReportDirectory(repo)
	ctx := context.Background()

	e, err := dir.Employee(ctx, repo.users[2].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, report.Employee{ID: repo.users[2].ID.Hex(), Name: "Cid", Department: "HR"}, *e)

	_, err = dir.Employee(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, report.ErrNotFound)

	staff, err := dir.EmployeesIn(ctx, "SALES")
	require.NoError(t, err)
	assert.Len(t, staff, 2)
	assert.Equal(t, "SALES", repo.lastDepartment)
}
