package reminder

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

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("reminder not found")
)

// Publisher pushes newly created reminders to live connections
type Publisher interface {
	Publish(r Reminder)
}

type ReminderService interface {
	Create(ctx context.Context, caller *utils.UserClaims, req CreateRequest) (*Reminder, error)
	Inbox(ctx context.Context, caller *utils.UserClaims, department string) ([]Reminder, error)
	Sent(ctx context.Context, caller *utils.UserClaims, includeInactive bool) ([]SentView, error)
	Delete(ctx context.Context, caller *utils.UserClaims, id string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type ReminderServiceImpl struct {
	Repo         ReminderRepository
	AuditService audit.AuditService
	Publisher    Publisher
	Logger       *zap.Logger
	TTL          time.Duration
	Retention    time.Duration
	Now          func() time.Time
}

func NewReminderService(
	repo ReminderRepository,
	auditService audit.AuditService,
	hub *Hub,
	logger *zap.Logger,
	cfg *config.Config,
) ReminderService {
	return &ReminderServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Publisher:    hub,
		Logger:       logger,
		TTL:          cfg.ReminderTTL,
		Retention:    cfg.ReminderRetention,
		Now:          time.Now,
	}
}

func viewerOf(caller *utils.UserClaims) Viewer {
	return Viewer{
		ID:         caller.UserID,
		Role:       common_models.NormalizeRole(caller.Role),
		Department: strings.TrimSpace(caller.Department),
	}
}

// Create stores a reminder from an admin or superadmin.
// Admins can only address their own department.
func (s *ReminderServiceImpl) Create(ctx context.Context, caller *utils.UserClaims, req CreateRequest) (*Reminder, error) {
	sender := viewerOf(caller)
	if !sender.Privileged() {
		return nil, ErrForbidden
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, MaxContentLength)
	}

	target := strings.TrimSpace(req.TargetDepartment)
	if sender.Role == common_models.RoleAdmin {
		if sender.Department == "" {
			return nil, fmt.Errorf("%w: admin has no department", ErrInvalidInput)
		}
		target = sender.Department
	} else if target == "" || strings.EqualFold(target, TargetAll) {
		target = TargetAll
	}

	now := s.Now()
	r := &Reminder{
		Content:          content,
		Type:             ParseType(req.Type),
		TargetDepartment: target,
		Duration:         ParseDuration(req.Duration),
		SenderID:         sender.ID,
		SenderName:       caller.Name,
		SenderRole:       sender.Role,
		CreatedAt:        now,
	}
	if r.Duration == DurationTemporary {
		expires := now.Add(s.TTL)
		r.ExpiresAt = &expires
	}

	if err := s.Repo.Create(ctx, r); err != nil {
		return nil, err
	}

	if err := s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "reminders", r.ID.Hex(), map[string]common_models.Change{
		"target_department": {New: r.TargetDepartment},
		"duration":          {New: r.Duration},
	}); err != nil {
		s.Logger.Warn("audit write failed", zap.Error(err), zap.String("userId", sender.ID))
	}

	if s.Publisher != nil {
		s.Publisher.Publish(*r)
	}
	return r, nil
}

// Inbox lists the active reminders addressed to the caller.
// A superadmin may look at another department's inbox.
func (s *ReminderServiceImpl) Inbox(ctx context.Context, caller *utils.UserClaims, department string) ([]Reminder, error) {
	viewer := viewerOf(caller)
	scope := Scope{}

	department = strings.TrimSpace(department)
	if department != "" && !strings.EqualFold(department, viewer.Department) {
		if viewer.Role != common_models.RoleSuperAdmin {
			return nil, ErrForbidden
		}
		scope.Department = department
	}

	lookup := viewer.Department
	if scope.Department != "" {
		lookup = scope.Department
	}

	now := s.Now()
	msgs, err := s.Repo.FindActive(ctx, Filter{Department: lookup}, now)
	if err != nil {
		return nil, err
	}
	return ResolveVisible(msgs, viewer, scope, now), nil
}

// Sent lists the caller's own reminders. Inactive ones are included on request.
func (s *ReminderServiceImpl) Sent(ctx context.Context, caller *utils.UserClaims, includeInactive bool) ([]SentView, error) {
	viewer := viewerOf(caller)
	if !viewer.Privileged() {
		return nil, ErrForbidden
	}

	now := s.Now()
	var msgs []Reminder
	var err error
	if includeInactive {
		msgs, err = s.Repo.FindBySender(ctx, viewer.ID)
	} else {
		msgs, err = s.Repo.FindActive(ctx, Filter{SenderID: viewer.ID}, now)
		msgs = ResolveVisible(msgs, viewer, Scope{Mine: true}, now)
	}
	if err != nil {
		return nil, err
	}

	views := make([]SentView, 0, len(msgs))
	for _, r := range msgs {
		views = append(views, SentView{Reminder: r, State: r.State(now)})
	}
	return views, nil
}

// Delete soft-deletes a reminder. Admins may only remove their own.
func (s *ReminderServiceImpl) Delete(ctx context.Context, caller *utils.UserClaims, id string) error {
	viewer := viewerOf(caller)
	if !viewer.Privileged() {
		return ErrForbidden
	}
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: invalid id", ErrInvalidInput)
	}

	r, err := s.Repo.Get(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && r.Deleted) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if viewer.Role != common_models.RoleSuperAdmin && r.SenderID != viewer.ID {
		return ErrForbidden
	}

	if err := s.Repo.SoftDelete(ctx, id, viewer.ID, s.Now()); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	if err := s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "reminders", id, map[string]common_models.Change{
		"deleted": {Old: false, New: true},
	}); err != nil {
		s.Logger.Warn("audit write failed", zap.Error(err), zap.String("userId", viewer.ID))
	}
	return nil
}

// PurgeExpired removes reminders that have been inactive for longer than the retention period
func (s *ReminderServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.Repo.PurgeExpired(ctx, s.Now().Add(-s.Retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.AuditService.LogChange(ctx, common_models.AuditActionPurge, "reminders", "", map[string]common_models.Change{
			"purged": {New: n},
		}); err != nil {
			s.Logger.Warn("audit write failed", zap.Error(err))
		}
	}
	return n, nil
}
