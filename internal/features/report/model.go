package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-day key used for Report.Date
const DateLayout = "2006-01-02"

// MaxContentLength is counted in code points, not bytes
const MaxContentLength = 1000

const MaxHours = 24.0

// Report is one employee's work summary for a calendar day
type Report struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID   string             `json:"authorId" bson:"author_id"`
	AuthorName string             `json:"authorName" bson:"author_name"`
	Role       string             `json:"role" bson:"role"`
	Department string             `json:"department" bson:"department"`
	Date       string             `json:"date" bson:"date"`
	Hours      float64            `json:"hours" bson:"hours"`
	Content    string             `json:"content" bson:"content"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ClampHours bounds h to [0, MaxHours]
func ClampHours(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h > MaxHours {
		return MaxHours
	}
	return h
}

// Day formats t as a report date key in t's location
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// SubmitRequest is the body of POST /api/reports
type SubmitRequest struct {
	Content string  `json:"content"`
	Hours   float64 `json:"hours"`
}

// StatusRow tells whether an employee filed a report on a given day
type StatusRow struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	HasReport  bool    `json:"hasReport"`
	Report     *Report `json:"report,omitempty"`
}

// Employee is the minimal user view the report feature needs
type Employee struct {
	ID         string
	Name       string
	Department string
}
