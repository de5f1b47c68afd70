package reminder

import (
	"sort"
	"strings"
	"time"

	common_models "go-worklog/internal/common/models"
)

// Viewer is the person a reminder list is resolved for
type Viewer struct {
	ID         string
	Role       string
	Department string
}

// Privileged reports whether v may use the Mine and Department scopes
func (v Viewer) Privileged() bool {
	return common_models.IsPrivileged(v.Role)
}

// Scope narrows a privileged viewer's list.
// The zero value is the inbox: messages addressed to the viewer's own department.
type Scope struct {
	Mine       bool
	Department string
}

// ResolveVisible returns the active reminders viewer may see under scope, newest first.
// Non-privileged viewers always get their inbox regardless of scope.
func ResolveVisible(msgs []Reminder, viewer Viewer, scope Scope, now time.Time) []Reminder {
	match := inboxMatcher(viewer.Department)
	if viewer.Privileged() {
		switch {
		case scope.Mine:
			match = func(r Reminder) bool { return r.SenderID == viewer.ID }
		case strings.TrimSpace(scope.Department) != "":
			match = inboxMatcher(scope.Department)
		}
	}

	out := make([]Reminder, 0, len(msgs))
	for _, r := range msgs {
		if r.IsActive(now) && match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CanSee reports whether viewer's inbox would include r at now
func CanSee(r Reminder, viewer Viewer, now time.Time) bool {
	return r.IsActive(now) && inboxMatcher(viewer.Department)(r)
}

func inboxMatcher(department string) func(Reminder) bool {
	department = strings.TrimSpace(department)
	return func(r Reminder) bool {
		if r.TargetsAll() {
			return true
		}
		return department != "" && strings.EqualFold(strings.TrimSpace(r.TargetDepartment), department)
	}
}
