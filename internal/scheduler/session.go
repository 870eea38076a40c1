package scheduler

import "cloud.google.com/go/civil"

// Status captures the lifecycle or display state of a Session.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"

	// Derived at render time only; never persisted.
	StatusCompleted Status = "COMPLETED"
	StatusToday     Status = "TODAY"
	StatusUpcoming  Status = "UPCOMING"
)

// Stored reports whether s may be persisted.
func (s Status) Stored() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Session is one concrete teaching event at a date, time range, room,
// teacher and class.
type Session struct {
	ID            string
	Date          civil.Date
	Start         TimeOfDay
	End           TimeOfDay
	RoomID        string
	TeacherID     string
	ClassID       string
	Status        Status
	IsMakeupClass bool
}

// Interval returns the session's time range.
func (s Session) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// DurationMinutes returns the session length in minutes.
func (s Session) DurationMinutes() float64 {
	return s.Interval().Minutes()
}

// Validate checks the session's time range.
func (s Session) Validate() error {
	return s.Interval().Validate()
}
