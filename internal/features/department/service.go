package department

import (
	"context"
	"strings"

	common_models "go-worklog/internal/common/models"
	"go-worklog/pkg/utils"

	"go.uber.org/zap"
)

// UserDepartments lists departments found on user records
type UserDepartments interface {
	DistinctDepartments(ctx context.Context) ([]string, error)
}

type DepartmentService interface {
	List(ctx context.Context, caller *utils.UserClaims) ([]string, error)
	Names(ctx context.Context) ([]string, error)
	Seed(ctx context.Context) error
}

type DepartmentServiceImpl struct {
	Repo   DepartmentRepository
	Users  UserDepartments
	Logger *zap.Logger
}

func NewDepartmentService(repo DepartmentRepository, users UserDepartments, logger *zap.Logger) DepartmentService {
	return &DepartmentServiceImpl{
		Repo:   repo,
		Users:  users,
		Logger: logger,
	}
}

// List shows superadmins every active department and everyone else only their own
func (s *DepartmentServiceImpl) List(ctx context.Context, caller *utils.UserClaims) ([]string, error) {
	if common_models.NormalizeRole(caller.Role) == common_models.RoleSuperAdmin {
		return s.Repo.ListNames(ctx)
	}
	if d := strings.TrimSpace(caller.Department); d != "" {
		return []string{d}, nil
	}
	return []string{}, nil
}

func (s *DepartmentServiceImpl) Names(ctx context.Context) ([]string, error) {
	return s.Repo.ListNames(ctx)
}

// Seed upserts the built-in list, then falls back to user departments if the collection is still empty
func (s *DepartmentServiceImpl) Seed(ctx context.Context) error {
	added, err := s.Repo.Upsert(ctx, BuiltIn)
	if err != nil {
		return err
	}

	count, err := s.Repo.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		fromUsers, err := s.Users.DistinctDepartments(ctx)
		if err != nil {
			return err
		}
		n, err := s.Repo.Upsert(ctx, fromUsers)
		if err != nil {
			return err
		}
		added += n
	}

	s.Logger.Info("departments seeded", zap.Int("added", added))
	return nil
}
