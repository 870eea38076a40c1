package testfixtures

import (
	"testing"
	"time"

	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

func TestClock(t *testing.T) {
	t.Parallel()

	t.Run("defaults to the reference time", func(t *testing.T) {
		t.Parallel()

		clock := NewClock(time.Time{})
		if !clock.Now().Equal(ReferenceTime()) || clock.Today() != ReferenceDate() {
			t.Fatalf("expected ReferenceTime, got %v", clock.Now())
		}
	})

	t.Run("advance and set are visible through NowFunc", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
		clock := NewClock(start)
		nowFn := clock.NowFunc()

		if updated := clock.Advance(90 * time.Minute); !updated.Equal(nowFn()) {
			t.Fatalf("advance returned %v, NowFunc %v", updated, nowFn())
		}
		clock.Set(start.Add(2 * time.Hour))
		if got := nowFn(); !got.Equal(start.Add(2 * time.Hour)) {
			t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
		}
	})

	t.Run("drives derived session status", func(t *testing.T) {
		t.Parallel()

		session := NewSessionFixture(WithSessionTimes("09:00", "10:00")).Scheduler()
		clock := NewClock(time.Time{})

		clock.SetWallClock(session.Date, 8, 0)
		if got := calendar.DeriveStatus(session, clock); got != scheduler.StatusToday {
			t.Fatalf("before start: expected %s, got %s", scheduler.StatusToday, got)
		}

		clock.SetWallClock(session.Date, 10, 0)
		if got := calendar.DeriveStatus(session, clock); got != scheduler.StatusCompleted {
			t.Fatalf("at end: expected %s, got %s", scheduler.StatusCompleted, got)
		}

		clock.SetWallClock(session.Date.AddDays(-1), 12, 0)
		if got := calendar.DeriveStatus(session, clock); got != scheduler.StatusUpcoming {
			t.Fatalf("day before: expected %s, got %s", scheduler.StatusUpcoming, got)
		}
	})
}
