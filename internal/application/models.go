package application

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// SessionInput captures caller provided session fields. Dates use
// YYYY-MM-DD and times use HH:MM or HH:MM:SS.
type SessionInput struct {
	Date          string
	StartTime     string
	EndTime       string
	RoomID        string
	TeacherID     string
	ClassID       string
	Status        string
	IsMakeupClass bool
}

// RecurringInput captures a weekly pattern. Weekdays use 0 for Sunday
// through 6 for Saturday.
type RecurringInput struct {
	Weekdays      []int
	StartDate     string
	EndDate       string
	StartTime     string
	EndTime       string
	RoomID        string
	TeacherID     string
	ClassID       string
	IsMakeupClass bool
}

// CheckConflictsParams wraps a candidate session. SessionID is set when the
// candidate replaces an existing session so it is not reported against itself.
type CheckConflictsParams struct {
	SessionID string
	Input     SessionInput
}

// ConflictReport lists every overlap found for a candidate session.
type ConflictReport struct {
	Conflicts    []scheduler.Conflict
	RoomConflict bool
}

// SessionResult is a persisted session plus non-blocking teacher conflicts.
type SessionResult struct {
	Session  scheduler.Session
	Warnings []scheduler.Conflict
}

// Occurrence is one expanded instance of a recurring pattern.
type Occurrence struct {
	Session   scheduler.Session
	Conflicts []scheduler.Conflict
}

// RecurringPlan is the expansion of a pattern checked against stored sessions.
type RecurringPlan struct {
	Weekdays         []time.Weekday
	Occurrences      []Occurrence
	RoomConflicts    int
	TeacherConflicts int
}

// Sessions returns the expanded sessions in date order.
func (p RecurringPlan) Sessions() []scheduler.Session {
	out := make([]scheduler.Session, 0, len(p.Occurrences))
	for _, o := range p.Occurrences {
		out = append(out, o.Session)
	}
	return out
}

// ListSessionsParams narrows a session listing. Page is 1-based.
type ListSessionsParams struct {
	RoomID           string
	TeacherID        string
	ClassID          string
	From             *civil.Date
	To               *civil.Date
	IncludeCancelled bool
	Page             int
	PageSize         int
}

// SessionPage is one page of a session listing.
type SessionPage struct {
	Sessions []scheduler.Session
	Page     int
	PageSize int
	Total    int
}

// SessionFilter narrows queries issued to the session repository. From and
// To are inclusive; Limit <= 0 means no limit.
type SessionFilter struct {
	RoomID    string
	TeacherID string
	ClassID   string
	From      *civil.Date
	To        *civil.Date
	Statuses  []scheduler.Status
	Limit     int
	Offset    int
}

// DayCalendarParams selects the admin day grid.
type DayCalendarParams struct {
	Date             civil.Date
	IncludeCancelled bool
}

// WeekScheduleParams selects one teacher's or one class's weekly grid.
// Exactly one of TeacherID and ClassID must be set.
type WeekScheduleParams struct {
	Date             civil.Date
	TeacherID        string
	ClassID          string
	IncludeCancelled bool
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Capacity int
}

// Room represents a classroom.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NamedInput captures the fields of a teacher or class.
type NamedInput struct {
	Name string
}

// Teacher represents an instructor.
type Teacher struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Class represents a group of students.
type Class struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
