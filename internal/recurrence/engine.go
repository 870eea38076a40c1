package recurrence

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// Pattern describes a fixed time-of-day on a subset of weekdays within an
// inclusive date range. It is consumed once and never stored.
type Pattern struct {
	Weekdays      []time.Weekday
	StartDate     civil.Date
	EndDate       civil.Date
	Start         scheduler.TimeOfDay
	End           scheduler.TimeOfDay
	RoomID        string
	TeacherID     string
	ClassID       string
	IsMakeupClass bool
}

// Engine expands recurrence patterns into candidate sessions.
type Engine struct{}

// NewEngine constructs an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Expand produces one session per date in [StartDate, EndDate] whose weekday
// is selected, in ascending date order.
//
// The engine enforces the following semantics:
//   - Both range endpoints are inclusive.
//   - Dates are naive calendar days; no instant arithmetic is performed, so
//     daylight-saving transitions have no effect.
//   - Invalid patterns fail with a *scheduler.ValidationError and no output.
func (e *Engine) Expand(p Pattern) ([]scheduler.Session, error) {
	weekdays, err := weekdaySet(p.Weekdays)
	if err != nil {
		return nil, err
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, scheduler.NewValidationError("end_date", scheduler.MsgDateRangeInvalid)
	}
	if err := (scheduler.Interval{Start: p.Start, End: p.End}).Validate(); err != nil {
		return nil, err
	}

	sessions := make([]scheduler.Session, 0, estimate(p, len(weekdays)))
	for day := p.StartDate; !day.After(p.EndDate); day = day.AddDays(1) {
		if _, ok := weekdays[Weekday(day)]; !ok {
			continue
		}
		sessions = append(sessions, scheduler.Session{
			Date:          day,
			Start:         p.Start,
			End:           p.End,
			RoomID:        p.RoomID,
			TeacherID:     p.TeacherID,
			ClassID:       p.ClassID,
			Status:        scheduler.StatusScheduled,
			IsMakeupClass: p.IsMakeupClass,
		})
	}

	return sessions, nil
}

// SpanDays returns the number of calendar days covered by the pattern.
func SpanDays(p Pattern) int {
	return p.EndDate.DaysSince(p.StartDate) + 1
}

// Weekday returns the day of week for a calendar date.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// SortedWeekdays returns the distinct weekdays in ascending order.
func SortedWeekdays(days []time.Weekday) []time.Weekday {
	set := make(map[time.Weekday]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	out := make([]time.Weekday, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func weekdaySet(days []time.Weekday) (map[time.Weekday]struct{}, error) {
	if len(days) == 0 {
		return nil, scheduler.NewValidationError("weekdays", scheduler.MsgWeekdayRequired)
	}
	set := make(map[time.Weekday]struct{}, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return nil, scheduler.NewValidationError("weekdays", scheduler.MsgWeekdayRange)
		}
		set[d] = struct{}{}
	}
	return set, nil
}

func estimate(p Pattern, weekdays int) int {
	span := SpanDays(p)
	n := (span/7 + 1) * weekdays
	if n > span {
		n = span
	}
	return n
}
