package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/features/audit"
	"go-worklog/internal/features/user"
	"go-worklog/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid body")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bcryptCost = 10

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, *user.Profile, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
		Logger:       logger,
		Now:          time.Now,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, ErrInvalidInput
	}

	_, err := s.UserRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	newUser := user.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         common_models.NormalizeRole(req.Role),
		Department:   strings.TrimSpace(req.Department),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, &newUser); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	changes := map[string]common_models.Change{
		"email":      {New: email},
		"role":       {New: newUser.Role},
		"department": {New: newUser.Department},
	}
	if err := s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "users", newUser.ID.Hex(), changes); err != nil {
		s.Logger.Warn("audit write failed", zap.Error(err), zap.String("userId", newUser.ID.Hex()))
	}

	return &newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *user.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return "", nil, ErrInvalidInput
	}

	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	role := common_models.NormalizeRole(usr.Role)
	token, err := utils.GenerateToken(usr.ID, usr.Name, role, usr.Department)
	if err != nil {
		return "", nil, err
	}

	actor := utils.WithClaims(ctx, &utils.UserClaims{UserID: usr.ID.Hex(), Name: usr.Name, Role: role})
	if err := s.AuditService.LogChange(actor, common_models.AuditActionLogin, "users", usr.ID.Hex(), nil); err != nil {
		s.Logger.Warn("audit write failed", zap.Error(err), zap.String("userId", usr.ID.Hex()))
	}

	profile := usr.Profile()
	profile.Role = role
	return token, &profile, nil
}
