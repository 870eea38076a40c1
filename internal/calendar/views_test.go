package calendar

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

func TestSlotTable_LayoutDay(t *testing.T) {
	t.Parallel()

	table := MustSlotTable(DefaultConfig())
	dir := Directory{
		Rooms:    []Resource{{ID: "room-1", Name: "Room A"}, {ID: "room-2", Name: "Room B"}},
		Teachers: []Resource{{ID: "teacher-1", Name: "Ms. Tanaka"}},
	}

	inRoom2 := sess("b", "13:00", "14:00")
	inRoom2.RoomID = "room-2"
	orphan := sess("c", "12:00", "13:00")
	orphan.RoomID = "room-gone"
	otherDay := sess("d", "09:00", "10:00")
	otherDay.Date = day.AddDays(1)

	layout := table.LayoutDay(day, dir, []scheduler.Session{sess("a", "09:00", "10:00"), inRoom2, orphan, otherDay}, fixedClock(time.Date(2024, time.May, 6, 12, 0, 0, 0, time.UTC)))

	if len(layout.Columns) != 3 {
		t.Fatalf("expected two rooms plus a placeholder column, got %d", len(layout.Columns))
	}
	if layout.Columns[0].Label != "Room A" || layout.Columns[1].Label != "Room B" {
		t.Fatalf("unexpected room labels %q, %q", layout.Columns[0].Label, layout.Columns[1].Label)
	}
	placeholder := layout.Columns[2]
	if placeholder.Key != "room-gone" || placeholder.Label != UnknownRoom || len(placeholder.Layout.Entries) != 1 {
		t.Fatalf("unexpected placeholder column %+v", placeholder)
	}

	first := layout.Columns[0].Layout.Entries
	if len(first) != 1 || first[0].Session.ID != "a" {
		t.Fatalf("expected only the room-1 session on this date, got %+v", first)
	}
	if first[0].Labels.Teacher != "Ms. Tanaka" || first[0].Labels.Class != UnknownClass {
		t.Fatalf("unexpected labels %+v", first[0].Labels)
	}
	if first[0].Session.Status != scheduler.StatusCompleted {
		t.Fatalf("expected derived COMPLETED status, got %s", first[0].Session.Status)
	}
	if got := layout.Columns[1].Layout.Entries[0].Session.Status; got != scheduler.StatusToday {
		t.Fatalf("expected derived TODAY status, got %s", got)
	}
}

func TestSlotTable_LayoutWeek(t *testing.T) {
	t.Parallel()

	table := MustSlotTable(DefaultConfig())
	monday := WeekStart(civil.Date{Year: 2024, Month: 5, Day: 9})
	if monday != day {
		t.Fatalf("expected week to start on %s, got %s", day, monday)
	}

	wednesday := sess("w", "08:30", "10:15")
	wednesday.Date = monday.AddDays(2)
	nextWeek := sess("n", "08:00", "09:00")
	nextWeek.Date = monday.AddDays(7)

	layout := table.LayoutWeek(monday, Directory{}, []scheduler.Session{sess("m", "09:00", "10:00"), wednesday, nextWeek}, fixedClock(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))

	if len(layout.Columns) != 7 {
		t.Fatalf("expected 7 day columns, got %d", len(layout.Columns))
	}
	if layout.Columns[0].Label != "Monday" || layout.Columns[6].Label != "Sunday" {
		t.Fatalf("unexpected column labels %q..%q", layout.Columns[0].Label, layout.Columns[6].Label)
	}

	wed := layout.Columns[2].Layout
	if len(wed.Entries) != 1 || wed.Entries[0].RowSpan != 2 || !wed.Skip.Contains(2) {
		t.Fatalf("unexpected wednesday layout %+v", wed)
	}
	if wed.Entries[0].Labels.Room != UnknownRoom {
		t.Fatalf("expected placeholder room label, got %q", wed.Entries[0].Labels.Room)
	}
	if wed.Entries[0].Session.Status != scheduler.StatusUpcoming {
		t.Fatalf("expected UPCOMING, got %s", wed.Entries[0].Session.Status)
	}
	for i, col := range layout.Columns {
		for _, e := range col.Layout.Entries {
			if e.Session.ID == "n" {
				t.Fatalf("session from next week rendered in column %d", i)
			}
		}
	}
}
