package scheduler

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	valid := map[string]TimeOfDay{
		"00:00":    0,
		"08:30":    NewTimeOfDay(8, 30, 0),
		"23:59:59": NewTimeOfDay(23, 59, 59),
		" 07:05 ":  NewTimeOfDay(7, 5, 0),
	}
	for input, want := range valid {
		got, err := ParseTimeOfDay("start_time", input)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseTimeOfDay(%q) = %v, want %v", input, got, want)
		}
	}

	for _, input := range []string{"", "8:30", "24:00", "12:60", "12:00:60", "ab:cd", "12", "12:00:00:00", "-1:00", "+1:00", "+5:+3", "1 :00"} {
		_, err := ParseTimeOfDay("start_time", input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("ParseTimeOfDay(%q) expected ValidationError, got %v", input, err)
		}
		if vErr.Message != MsgMalformedTime || vErr.Field != "start_time" {
			t.Fatalf("ParseTimeOfDay(%q) unexpected error %+v", input, vErr)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	t.Parallel()

	if got := NewTimeOfDay(9, 5, 0).String(); got != "09:05" {
		t.Fatalf("expected 09:05, got %s", got)
	}
	if got := NewTimeOfDay(9, 5, 7).String(); got != "09:05:07" {
		t.Fatalf("expected 09:05:07, got %s", got)
	}

	var parsed TimeOfDay
	if err := parsed.UnmarshalText([]byte("10:15")); err != nil {
		t.Fatalf("UnmarshalText returned error: %v", err)
	}
	if parsed.Minutes() != 615 {
		t.Fatalf("expected 615 minutes, got %v", parsed.Minutes())
	}
}
