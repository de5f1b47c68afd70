package user

import (
	"context"
	"errors"
	"strings"

	common_models "go-worklog/internal/common/models"
	"go-worklog/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrForbidden = errors.New("forbidden")
)

type UserService interface {
	Me(ctx context.Context, id string) (*Profile, error)
	ListByDepartment(ctx context.Context, caller *utils.UserClaims, department string) (string, []Profile, error)
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

func (s *UserServiceImpl) Me(ctx context.Context, id string) (*Profile, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

// ListByDepartment pins admins to their own department; superadmins may list any or all.
func (s *UserServiceImpl) ListByDepartment(ctx context.Context, caller *utils.UserClaims, department string) (string, []Profile, error) {
	department = strings.TrimSpace(department)
	switch common_models.NormalizeRole(caller.Role) {
	case common_models.RoleSuperAdmin:
	case common_models.RoleAdmin:
		department = strings.TrimSpace(caller.Department)
	default:
		return "", nil, ErrForbidden
	}

	users, err := s.Repo.ListByDepartment(ctx, department)
	if err != nil {
		return "", nil, err
	}
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return department, out, nil
}

func (s *UserServiceImpl) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.Repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.Hex()] = u.Name
	}
	return names, nil
}
