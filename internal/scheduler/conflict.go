package scheduler

import "sort"

// ConflictType describes which resource two overlapping sessions compete for.
type ConflictType string

const (
	// ConflictTypeRoom indicates a room is double-booked.
	ConflictTypeRoom ConflictType = "room"
	// ConflictTypeTeacher indicates a teacher is double-booked.
	ConflictTypeTeacher ConflictType = "teacher"
)

// Conflict details an overlapping session that callers can present to users.
type Conflict struct {
	Type    ConflictType
	Session Session
}

// DetectConflicts returns the sessions in existing that overlap candidate on
// the same date. Callers scope existing to a single room. An entry carrying
// the candidate's own non-empty ID is ignored so that edits do not conflict
// with their previous version. Neither input is modified.
func DetectConflicts(candidate Session, existing []Session) ([]Session, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	conflicts := make([]Session, 0)
	for _, other := range existing {
		if !competes(candidate, other) {
			continue
		}
		conflicts = append(conflicts, other)
	}
	return conflicts, nil
}

// ClassifyConflicts checks candidate against an unscoped list and tags each
// overlap by the resource it shares. A session sharing both the room and the
// teacher yields two conflicts. Results are ordered by start time, then ID,
// with room conflicts before teacher conflicts for the same session.
func ClassifyConflicts(candidate Session, existing []Session) ([]Conflict, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	overlapping := make([]Session, 0)
	for _, other := range existing {
		if competes(candidate, other) {
			overlapping = append(overlapping, other)
		}
	}
	SortSessions(overlapping)

	conflicts := make([]Conflict, 0, len(overlapping))
	for _, other := range overlapping {
		if candidate.RoomID != "" && other.RoomID == candidate.RoomID {
			conflicts = append(conflicts, Conflict{Type: ConflictTypeRoom, Session: other})
		}
		if candidate.TeacherID != "" && other.TeacherID == candidate.TeacherID {
			conflicts = append(conflicts, Conflict{Type: ConflictTypeTeacher, Session: other})
		}
	}
	return conflicts, nil
}

// HasRoomConflict reports whether any conflict is room-typed.
func HasRoomConflict(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Type == ConflictTypeRoom {
			return true
		}
	}
	return false
}

// SortSessions orders sessions by date, start time and ID in place.
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
}

func competes(candidate, other Session) bool {
	if candidate.ID != "" && other.ID == candidate.ID {
		return false
	}
	if other.Date != candidate.Date {
		return false
	}
	return Overlaps(candidate.Interval(), other.Interval())
}
