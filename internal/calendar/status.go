package calendar

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the process clock.
var SystemClock Clock = ClockFunc(time.Now)

// DeriveStatus computes the display status of s relative to clock. Sessions
// before today, or today with an end time at or before the current minute,
// are completed; the rest of today is TODAY; everything later is upcoming.
// Cancelled sessions stay cancelled.
func DeriveStatus(s scheduler.Session, clock Clock) scheduler.Status {
	if s.Status == scheduler.StatusCancelled {
		return scheduler.StatusCancelled
	}
	if clock == nil {
		clock = SystemClock
	}

	now := clock.Now()
	today := civil.DateOf(now)
	switch {
	case s.Date.Before(today):
		return scheduler.StatusCompleted
	case s.Date.After(today):
		return scheduler.StatusUpcoming
	}

	currentMinute := scheduler.NewTimeOfDay(now.Hour(), now.Minute(), 0)
	if s.End <= currentMinute {
		return scheduler.StatusCompleted
	}
	return scheduler.StatusToday
}

// WithDerivedStatus returns a copy of sessions whose Status is replaced by
// the derived display status.
func WithDerivedStatus(sessions []scheduler.Session, clock Clock) []scheduler.Session {
	out := make([]scheduler.Session, len(sessions))
	for i, s := range sessions {
		s.Status = DeriveStatus(s, clock)
		out[i] = s
	}
	return out
}
