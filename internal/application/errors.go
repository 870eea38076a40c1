package application

import (
	"errors"
	"fmt"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a write would double-book a room.
	ErrConflict = errors.New("application: room conflict")
	// ErrAlreadyExists is returned when a directory entry with the same key exists.
	ErrAlreadyExists = errors.New("application: already exists")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error. The first message per field wins.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// absorb records an engine validation failure and reports whether err was one.
func (v *ValidationError) absorb(err error) bool {
	var engineErr *scheduler.ValidationError
	if !errors.As(err, &engineErr) {
		return false
	}
	field := engineErr.Field
	if field == "" {
		field = "session"
	}
	v.add(field, engineErr.Message)
	return true
}

// ConflictError lists the room conflicts that blocked a write. It matches
// ErrConflict with errors.Is.
type ConflictError struct {
	Conflicts []scheduler.Conflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %d conflicting session(s)", ErrConflict.Error(), len(e.Conflicts))
}

// Unwrap exposes ErrConflict to errors.Is.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
