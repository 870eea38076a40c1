package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"field": "invalid"}}
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected consistent message for populated error, got %q", got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if err := (&ValidationError{}).HasErrors(); err {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if err := (&ValidationError{FieldErrors: map[string]string{"field": "bad"}}).HasErrors(); !err {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	base.add("first", "value")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	other := &ValidationError{FieldErrors: map[string]string{"second": "another"}}
	base.merge(other)
	if got := base.FieldErrors["second"]; got != "another" {
		t.Fatalf("expected merge to copy field, got %q", got)
	}

	base.merge(nil)
	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected merge with nil to leave fields unchanged")
	}
}

func TestValidationError_AddKeepsFirstMessage(t *testing.T) {
	t.Parallel()

	v := &ValidationError{}
	v.add("date", "date is required")
	v.add("date", "date is invalid")
	if got := v.FieldErrors["date"]; got != "date is required" {
		t.Fatalf("expected first message to win, got %q", got)
	}
}

func TestValidationError_Absorb(t *testing.T) {
	t.Parallel()

	v := &ValidationError{}
	if !v.absorb(scheduler.NewValidationError("end_time", scheduler.MsgEndBeforeStart)) {
		t.Fatalf("expected engine validation error to be absorbed")
	}
	if got := v.FieldErrors["end_time"]; got != scheduler.MsgEndBeforeStart {
		t.Fatalf("unexpected message %q", got)
	}

	if !v.absorb(fmt.Errorf("wrapped: %w", scheduler.NewValidationError("", "bad"))) {
		t.Fatalf("expected wrapped engine error to be absorbed")
	}
	if got := v.FieldErrors["session"]; got != "bad" {
		t.Fatalf("expected empty field to map to session, got %q", got)
	}

	if v.absorb(errors.New("boom")) {
		t.Fatalf("expected plain errors to be ignored")
	}
}

func TestConflictError(t *testing.T) {
	t.Parallel()

	err := error(&ConflictError{Conflicts: []scheduler.Conflict{{Type: scheduler.ConflictTypeRoom}}})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ConflictError to match ErrConflict")
	}
	if got := err.Error(); got != "application: room conflict: 1 conflicting session(s)" {
		t.Fatalf("unexpected message %q", got)
	}

	var nilErr *ConflictError
	if nilErr.Error() != "" {
		t.Fatalf("expected empty message for nil error")
	}
}
