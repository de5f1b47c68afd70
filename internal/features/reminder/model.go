package reminder

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// ParseType falls back to TypeInfo
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeWarning, TypeSuccess, TypeError:
		return t
	}
	return TypeInfo
}

type Duration string

const (
	DurationTemporary Duration = "temporary"
	DurationPermanent Duration = "permanent"
)

// ParseDuration falls back to DurationTemporary
func ParseDuration(s string) Duration {
	if Duration(strings.ToLower(strings.TrimSpace(s))) == DurationPermanent {
		return DurationPermanent
	}
	return DurationTemporary
}

// TargetAll addresses every department
const TargetAll = "all"

// MaxContentLength is counted in code points
const MaxContentLength = 1000

// Reminder is a broadcast message. Only soft deletion changes it after creation.
type Reminder struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content          string             `json:"content" bson:"content"`
	Type             Type               `json:"type" bson:"type"`
	TargetDepartment string             `json:"targetDepartment" bson:"target_department"`
	Duration         Duration           `json:"duration" bson:"duration"`
	SenderID         string             `json:"senderId" bson:"sender_id"`
	SenderName       string             `json:"senderName" bson:"sender_name"`
	SenderRole       string             `json:"senderRole" bson:"sender_role"`
	CreatedAt        time.Time          `json:"createdAt" bson:"created_at"`
	ExpiresAt        *time.Time         `json:"expiresAt,omitempty" bson:"expires_at"`
	Deleted          bool               `json:"deleted" bson:"deleted"`
	DeletedAt        *time.Time         `json:"deletedAt,omitempty" bson:"deleted_at,omitempty"`
	DeletedBy        string             `json:"deletedBy,omitempty" bson:"deleted_by,omitempty"`
}

type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
	StateDeleted State = "deleted"
)

// IsActive is true for a live permanent message or a temporary one before its expiry
func (r Reminder) IsActive(now time.Time) bool {
	if r.Deleted {
		return false
	}
	if r.Duration == DurationPermanent {
		return true
	}
	// a temporary reminder without an expiry is malformed and never shown
	return r.ExpiresAt != nil && now.Before(*r.ExpiresAt)
}

func (r Reminder) State(now time.Time) State {
	switch {
	case r.Deleted:
		return StateDeleted
	case r.IsActive(now):
		return StateActive
	}
	return StateExpired
}

// TargetsAll reports whether every department receives r
func (r Reminder) TargetsAll() bool {
	return strings.EqualFold(strings.TrimSpace(r.TargetDepartment), TargetAll)
}

// SentView is how the sender's list presents a reminder
type SentView struct {
	Reminder
	State State `json:"state"`
}

// CreateRequest is the body of POST /api/reminders
type CreateRequest struct {
	Content          string `json:"content"`
	Type             string `json:"type"`
	TargetDepartment string `json:"targetDepartment"`
	Duration         string `json:"duration"`
}
