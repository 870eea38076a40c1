package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

func calendarFixture() (*sessionRepoStub, directorySourceStub) {
	cancelled := storedSession("cancelled", monday, "15:00", "16:00", "room-1", "teacher-1")
	cancelled.Status = scheduler.StatusCancelled
	repo := &sessionRepoStub{sessions: []scheduler.Session{
		storedSession("morning", monday, "09:00", "10:00", "room-1", "teacher-1"),
		storedSession("afternoon", monday, "13:00", "14:30", "room-2", "teacher-2"),
		storedSession("wednesday", monday.AddDays(2), "10:00", "11:00", "room-1", "teacher-1"),
		storedSession("next-week", monday.AddDays(7), "10:00", "11:00", "room-1", "teacher-1"),
		cancelled,
	}}
	dir := directorySourceStub{dir: calendar.Directory{
		Rooms:    []calendar.Resource{{ID: "room-1", Name: "Room A"}, {ID: "room-2", Name: "Room B"}},
		Teachers: []calendar.Resource{{ID: "teacher-1", Name: "Sato"}},
	}}
	return repo, dir
}

func noonMonday() time.Time { return time.Date(2024, time.May, 6, 12, 0, 0, 0, time.UTC) }

func TestCalendarService_DayCalendar(t *testing.T) {
	t.Parallel()

	repo, dir := calendarFixture()
	svc := NewCalendarService(repo, dir, noonMonday)

	layout, err := svc.DayCalendar(context.Background(), DayCalendarParams{Date: monday})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(layout.Columns) != 2 {
		t.Fatalf("expected one column per room, got %d", len(layout.Columns))
	}

	roomA := layout.Columns[0]
	if roomA.Label != "Room A" || len(roomA.Layout.Entries) != 1 {
		t.Fatalf("unexpected Room A column %+v", roomA)
	}
	entry := roomA.Layout.Entries[0]
	if entry.Session.Status != scheduler.StatusCompleted || entry.Labels.Teacher != "Sato" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	roomB := layout.Columns[1]
	if len(roomB.Layout.Entries) != 2 {
		t.Fatalf("expected 13:00-14:30 to cover two hourly slots, got %d", len(roomB.Layout.Entries))
	}
	if roomB.Layout.Entries[0].Session.Status != scheduler.StatusToday {
		t.Fatalf("expected TODAY, got %s", roomB.Layout.Entries[0].Session.Status)
	}
	if roomB.Layout.Entries[0].Labels.Teacher != calendar.UnknownTeacher {
		t.Fatalf("expected placeholder teacher label, got %q", roomB.Layout.Entries[0].Labels.Teacher)
	}

	withCancelled, err := svc.DayCalendar(context.Background(), DayCalendarParams{Date: monday, IncludeCancelled: true})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got := len(withCancelled.Columns[0].Layout.Entries); got != 2 {
		t.Fatalf("expected cancelled session to be rendered on request, got %d entries", got)
	}
}

func TestCalendarService_WeekSchedule(t *testing.T) {
	t.Parallel()

	t.Run("renders the teacher's week from Monday", func(t *testing.T) {
		t.Parallel()
		repo, dir := calendarFixture()
		svc := NewCalendarService(repo, dir, noonMonday)

		layout, err := svc.WeekSchedule(context.Background(), WeekScheduleParams{Date: monday.AddDays(3), TeacherID: "teacher-1"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if layout.Start != monday || len(layout.Columns) != 7 {
			t.Fatalf("unexpected week %s with %d columns", layout.Start, len(layout.Columns))
		}
		if len(layout.Columns[0].Layout.Entries) != 1 || len(layout.Columns[2].Layout.Entries) != 1 {
			t.Fatalf("expected Monday and Wednesday entries")
		}
		wed := layout.Columns[2].Layout.Entries[0]
		if wed.Session.ID != "wednesday" || wed.Session.Status != scheduler.StatusUpcoming || wed.RowSpan != 1 {
			t.Fatalf("unexpected Wednesday entry %+v", wed)
		}

		last := repo.filters[len(repo.filters)-1]
		wantEnd := civil.Date{Year: 2024, Month: 5, Day: 12}
		if last.TeacherID != "teacher-1" || *last.From != monday || *last.To != wantEnd {
			t.Fatalf("unexpected filter %+v", last)
		}
	})

	t.Run("requires exactly one subject", func(t *testing.T) {
		t.Parallel()
		svc := NewCalendarService(&sessionRepoStub{}, nil, noonMonday)

		for _, params := range []WeekScheduleParams{
			{Date: monday},
			{Date: monday, TeacherID: "teacher-1", ClassID: "class-1"},
		} {
			_, err := svc.WeekSchedule(context.Background(), params)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError for %+v, got %v", params, err)
			}
		}
	})

	t.Run("propagates directory failures", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		svc := NewCalendarService(&sessionRepoStub{}, directorySourceStub{err: boom}, noonMonday)

		if _, err := svc.WeekSchedule(context.Background(), WeekScheduleParams{Date: monday, ClassID: "class-1"}); !errors.Is(err, boom) {
			t.Fatalf("expected directory error, got %v", err)
		}
	})
}
