package scheduler

import "fmt"

// Validation messages raised by the scheduling engine.
const (
	MsgWeekdayRequired  = "at least one weekday required"
	MsgWeekdayRange     = "weekday out of range"
	MsgDateRangeInvalid = "end date precedes start date"
	MsgEndBeforeStart   = "end time must be after start time"
	MsgMalformedTime    = "malformed time value"
)

// ValidationError reports malformed or inconsistent engine input. It always
// names the single field that caused the failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if v.Field == "" {
		return "validation failed: " + v.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", v.Field, v.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
