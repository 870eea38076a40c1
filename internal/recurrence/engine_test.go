package recurrence

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

func basePattern() Pattern {
	return Pattern{
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		StartDate: civil.Date{Year: 2024, Month: time.March, Day: 4},
		EndDate:   civil.Date{Year: 2024, Month: time.March, Day: 17},
		Start:     scheduler.MustParseTimeOfDay("09:00"),
		End:       scheduler.MustParseTimeOfDay("10:30"),
		RoomID:    "room-1",
		TeacherID: "teacher-1",
		ClassID:   "class-1",
	}
}

func TestEngine_Expand(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	t.Run("respects weekday selections in date order", func(t *testing.T) {
		t.Parallel()

		sessions, err := engine.Expand(basePattern())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantDays := []int{4, 6, 8, 11, 13, 15}
		if len(sessions) != len(wantDays) {
			t.Fatalf("expected %d sessions, got %d", len(wantDays), len(sessions))
		}
		for i, s := range sessions {
			if s.Date.Day != wantDays[i] {
				t.Fatalf("session %d on day %d, want %d", i, s.Date.Day, wantDays[i])
			}
			if s.RoomID != "room-1" || s.TeacherID != "teacher-1" || s.ClassID != "class-1" {
				t.Fatalf("shared fields not copied: %+v", s)
			}
			if s.Start != scheduler.MustParseTimeOfDay("09:00") || s.End != scheduler.MustParseTimeOfDay("10:30") {
				t.Fatalf("times not copied: %+v", s)
			}
			if s.Status != scheduler.StatusScheduled || s.ID != "" {
				t.Fatalf("expected unsaved scheduled candidate, got %+v", s)
			}
		}
	})

	t.Run("count matches matching weekdays in range", func(t *testing.T) {
		t.Parallel()

		p := basePattern()
		p.StartDate = civil.Date{Year: 2024, Month: time.January, Day: 1}
		p.EndDate = civil.Date{Year: 2024, Month: time.December, Day: 31}
		p.Weekdays = []time.Weekday{time.Tuesday, time.Saturday}

		want := 0
		for d := p.StartDate; !d.After(p.EndDate); d = d.AddDays(1) {
			wd := d.In(time.UTC).Weekday()
			if wd == time.Tuesday || wd == time.Saturday {
				want++
			}
		}

		sessions, err := engine.Expand(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := len(sessions); got != want {
			t.Fatalf("expected %d sessions, got %d", want, got)
		}
	})

	t.Run("single day range is inclusive", func(t *testing.T) {
		t.Parallel()

		p := basePattern()
		p.EndDate = p.StartDate

		sessions, err := engine.Expand(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sessions) != 1 || sessions[0].Date != p.StartDate {
			t.Fatalf("expected exactly one session on %s, got %+v", p.StartDate, sessions)
		}

		p.Weekdays = []time.Weekday{time.Sunday}
		sessions, err = engine.Expand(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sessions) != 0 {
			t.Fatalf("expected no sessions for non-matching weekday, got %d", len(sessions))
		}
	})

	t.Run("is deterministic and ignores duplicate weekdays", func(t *testing.T) {
		t.Parallel()

		p := basePattern()
		first, err := engine.Expand(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p.Weekdays = []time.Weekday{time.Friday, time.Monday, time.Wednesday, time.Monday}
		second, err := engine.Expand(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("expected identical output, got %+v and %+v", first, second)
		}
	})

	t.Run("crosses daylight saving transitions by calendar day", func(t *testing.T) {
		t.Parallel()

		p := basePattern()
		p.Weekdays = []time.Weekday{time.Sunday}
		p.StartDate = civil.Date{Year: 2024, Month: time.March, Day: 3}
		p.EndDate = civil.Date{Year: 2024, Month: time.March, Day: 31}

		sessions, err := engine.Expand(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int{3, 10, 17, 24, 31}
		if len(sessions) != len(want) {
			t.Fatalf("expected %d Sundays, got %d", len(want), len(sessions))
		}
		for i, s := range sessions {
			if s.Date.Day != want[i] || s.Start != p.Start {
				t.Fatalf("unexpected session %d: %+v", i, s)
			}
		}
	})
}

func TestEngine_ExpandValidation(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	cases := []struct {
		name    string
		mutate  func(*Pattern)
		field   string
		message string
	}{
		{"empty weekdays", func(p *Pattern) { p.Weekdays = nil }, "weekdays", scheduler.MsgWeekdayRequired},
		{"weekday out of range", func(p *Pattern) { p.Weekdays = []time.Weekday{7} }, "weekdays", scheduler.MsgWeekdayRange},
		{"inverted date range", func(p *Pattern) { p.EndDate = p.StartDate.AddDays(-1) }, "end_date", scheduler.MsgDateRangeInvalid},
		{"equal times", func(p *Pattern) { p.End = p.Start }, "end_time", scheduler.MsgEndBeforeStart},
		{"inverted times", func(p *Pattern) { p.Start, p.End = p.End, p.Start }, "end_time", scheduler.MsgEndBeforeStart},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := basePattern()
			tc.mutate(&p)

			sessions, err := engine.Expand(p)
			var vErr *scheduler.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.field || vErr.Message != tc.message {
				t.Fatalf("unexpected error %+v", vErr)
			}
			if sessions != nil {
				t.Fatalf("expected no partial output, got %d sessions", len(sessions))
			}
		})
	}
}

func TestSortedWeekdays(t *testing.T) {
	t.Parallel()

	got := SortedWeekdays([]time.Weekday{time.Friday, time.Monday, time.Friday, time.Sunday})
	want := []time.Weekday{time.Sunday, time.Monday, time.Friday}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
