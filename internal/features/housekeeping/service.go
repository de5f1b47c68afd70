package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-worklog/internal/config"
	"go-worklog/internal/features/analytics"
	"go-worklog/internal/features/reminder"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrUnknownJob = errors.New("unknown job")

const (
	DefaultRunLimit = 20
	MaxRunLimit     = 200
)

type HousekeepingService interface {
	Start() error
	Stop()
	RunNow(ctx context.Context, name string) (*JobRun, error)
	Jobs() []JobInfo
	Runs(ctx context.Context, job string, limit int64) ([]JobRun, error)
}

type HousekeepingServiceImpl struct {
	repo     RunRepository
	logger   *zap.Logger
	location *time.Location
	jobs     []Job
	now      func() time.Time

	scheduler *cron.Cron
	entries   map[string]cron.EntryID
	lastRun   map[string]time.Time
	mu        sync.RWMutex
}

func NewHousekeepingService(
	repo RunRepository,
	reminders reminder.ReminderService,
	cache *analytics.ResultCache,
	logger *zap.Logger,
	cfg *config.Config,
) HousekeepingService {
	jobs := []Job{
		{
			Name:     JobPurgeReminders,
			Schedule: cfg.HousekeepingSchedule,
			Run:      reminders.PurgeExpired,
		},
		{
			Name:     JobResetCache,
			Schedule: DayRolloverSchedule,
			Run: func(ctx context.Context) (int64, error) {
				n := cache.Len()
				cache.Purge()
				return int64(n), nil
			},
		},
	}
	return newService(repo, logger, cfg.Location, jobs)
}

func newService(repo RunRepository, logger *zap.Logger, loc *time.Location, jobs []Job) *HousekeepingServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &HousekeepingServiceImpl{
		repo:     repo,
		logger:   logger,
		location: loc,
		jobs:     jobs,
		now:      time.Now,
		entries:  make(map[string]cron.EntryID),
		lastRun:  make(map[string]time.Time),
	}
}

// Start registers every job with a fresh scheduler and starts it
func (s *HousekeepingServiceImpl) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler = cron.New(cron.WithLocation(s.location))
	for _, job := range s.jobs {
		job := job
		entryID, err := s.scheduler.AddFunc(job.Schedule, func() {
			if _, err := s.execute(context.Background(), job, "schedule"); err != nil {
				s.logger.Error("housekeeping job failed", zap.String("job", job.Name), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
		s.entries[job.Name] = entryID
	}

	s.scheduler.Start()
	s.logger.Info("housekeeping scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop waits for running jobs to finish
func (s *HousekeepingServiceImpl) Stop() {
	s.mu.RLock()
	scheduler := s.scheduler
	s.mu.RUnlock()

	if scheduler != nil {
		ctx := scheduler.Stop()
		<-ctx.Done()
	}
}

func (s *HousekeepingServiceImpl) RunNow(ctx context.Context, name string) (*JobRun, error) {
	for _, job := range s.jobs {
		if job.Name == name {
			return s.execute(ctx, job, "manual")
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

func (s *HousekeepingServiceImpl) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		info := JobInfo{Name: job.Name, Schedule: job.Schedule}
		if id, ok := s.entries[job.Name]; ok && s.scheduler != nil {
			if next := s.scheduler.Entry(id).Next; !next.IsZero() {
				info.NextRun = &next
			}
		}
		if last, ok := s.lastRun[job.Name]; ok {
			info.LastRun = &last
		}
		out = append(out, info)
	}
	return out
}

func (s *HousekeepingServiceImpl) Runs(ctx context.Context, job string, limit int64) ([]JobRun, error) {
	switch {
	case limit <= 0:
		limit = DefaultRunLimit
	case limit > MaxRunLimit:
		limit = MaxRunLimit
	}
	return s.repo.ListRuns(ctx, job, limit)
}

func (s *HousekeepingServiceImpl) execute(ctx context.Context, job Job, trigger string) (*JobRun, error) {
	run := &JobRun{
		Job:       job.Name,
		Trigger:   trigger,
		StartTime: s.now(),
		Status:    RunRunning,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		s.logger.Warn("failed to record housekeeping run", zap.String("job", job.Name), zap.Error(err))
	}

	affected, execErr := job.Run(ctx)

	end := s.now()
	run.EndTime = &end
	run.Affected = affected
	run.Status = RunSuccess
	if execErr != nil {
		run.Status = RunFailed
		run.Error = execErr.Error()
	}

	s.mu.Lock()
	s.lastRun[job.Name] = run.StartTime
	s.mu.Unlock()

	if err := s.repo.UpdateRun(ctx, run); err != nil {
		s.logger.Warn("failed to update housekeeping run", zap.String("job", job.Name), zap.Error(err))
	}

	s.logger.Info("housekeeping job finished",
		zap.String("job", job.Name),
		zap.String("status", string(run.Status)),
		zap.Int64("affected", affected),
	)
	return run, execErr
}
