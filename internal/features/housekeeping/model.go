package housekeeping

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	JobPurgeReminders = "purge-reminders"
	JobResetCache     = "reset-analytics-cache"
)

// DayRolloverSchedule fires at local midnight
const DayRolloverSchedule = "0 0 * * *"

// Job is a named unit of maintenance work run on a cron schedule
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (affected int64, err error)
}

type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// JobRun records one execution of a job
type JobRun struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Job       string             `json:"job" bson:"job"`
	Trigger   string             `json:"trigger" bson:"trigger"` // "schedule" or "manual"
	StartTime time.Time          `json:"startTime" bson:"start_time"`
	EndTime   *time.Time         `json:"endTime,omitempty" bson:"end_time,omitempty"`
	Status    RunStatus          `json:"status" bson:"status"`
	Affected  int64              `json:"affected" bson:"affected"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
}

// JobInfo is the listing shape for GET /api/housekeeping/jobs
type JobInfo struct {
	Name     string     `json:"name"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"nextRun,omitempty"`
	LastRun  *time.Time `json:"lastRun,omitempty"`
}
