package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a naive wall-clock time expressed in seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

// NewTimeOfDay builds a TimeOfDay from its components without validation.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Any other shape, or a component
// outside its range, fails with a ValidationError attributed to field.
func ParseTimeOfDay(field, value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, NewValidationError(field, MsgMalformedTime)
	}

	limits := []int{23, 59, 59}
	var components [3]int
	for i, part := range parts {
		if len(part) != 2 || !isDigit(part[0]) || !isDigit(part[1]) {
			return 0, NewValidationError(field, MsgMalformedTime)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			return 0, NewValidationError(field, MsgMalformedTime)
		}
		components[i] = n
	}

	return NewTimeOfDay(components[0], components[1], components[2]), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// MustParseTimeOfDay is like ParseTimeOfDay but panics on malformed input.
// It is intended for constants and tests.
func MustParseTimeOfDay(value string) TimeOfDay {
	t, err := ParseTimeOfDay("time", value)
	if err != nil {
		panic(err)
	}
	return t
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < secondsPerDay
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 3600 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }

// Second returns the second component.
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Minutes returns the offset from midnight in (possibly fractional) minutes.
func (t TimeOfDay) Minutes() float64 { return float64(t) / 60 }

// String formats t as HH:MM, or HH:MM:SS when seconds are present.
func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText encodes t in its String form.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes "HH:MM[:SS]".
func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay("time", string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
