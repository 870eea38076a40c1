package scheduler

// Interval is a half-open wall-clock range [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Validate rejects empty and inverted ranges.
func (i Interval) Validate() error {
	if !i.Start.Valid() {
		return NewValidationError("start_time", MsgMalformedTime)
	}
	if !i.End.Valid() {
		return NewValidationError("end_time", MsgMalformedTime)
	}
	if i.End <= i.Start {
		return NewValidationError("end_time", MsgEndBeforeStart)
	}
	return nil
}

// Minutes returns the interval length in minutes.
func (i Interval) Minutes() float64 {
	return float64(i.End-i.Start) / 60
}

// Overlaps reports whether a and b share at least one instant. A shared
// boundary is not an overlap, and an empty interval overlaps nothing.
func Overlaps(a, b Interval) bool {
	return a.Start < a.End && b.Start < b.End && a.Start < b.End && b.Start < a.End
}
