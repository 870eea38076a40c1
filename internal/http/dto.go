package http

import (
	"time"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

type sessionDTO struct {
	ID            string `json:"id,omitempty"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	RoomID        string `json:"room_id"`
	TeacherID     string `json:"teacher_id"`
	ClassID       string `json:"class_id"`
	Status        string `json:"status"`
	IsMakeupClass bool   `json:"is_makeup_class"`
}

func toSessionDTO(s scheduler.Session) sessionDTO {
	return sessionDTO{
		ID:            s.ID,
		Date:          s.Date.String(),
		StartTime:     s.Start.String(),
		EndTime:       s.End.String(),
		RoomID:        s.RoomID,
		TeacherID:     s.TeacherID,
		ClassID:       s.ClassID,
		Status:        string(s.Status),
		IsMakeupClass: s.IsMakeupClass,
	}
}

func toSessionDTOs(sessions []scheduler.Session) []sessionDTO {
	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionDTO(s))
	}
	return out
}

type conflictDTO struct {
	Type    string     `json:"type"`
	Session sessionDTO `json:"session"`
}

func toConflictDTOs(conflicts []scheduler.Conflict) []conflictDTO {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]conflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictDTO{Type: string(c.Type), Session: toSessionDTO(c.Session)})
	}
	return out
}

type sessionResponse struct {
	Session  sessionDTO    `json:"session"`
	Warnings []conflictDTO `json:"warnings,omitempty"`
}

type conflictReportResponse struct {
	RoomConflict bool          `json:"room_conflict"`
	Conflicts    []conflictDTO `json:"conflicts"`
}

type occurrenceDTO struct {
	Session   sessionDTO    `json:"session"`
	Conflicts []conflictDTO `json:"conflicts,omitempty"`
}

type recurringPlanResponse struct {
	Weekdays         []int           `json:"weekdays"`
	Occurrences      []occurrenceDTO `json:"occurrences"`
	RoomConflicts    int             `json:"room_conflicts"`
	TeacherConflicts int             `json:"teacher_conflicts"`
}

func toRecurringPlanResponse(plan application.RecurringPlan) recurringPlanResponse {
	out := recurringPlanResponse{
		Occurrences:      make([]occurrenceDTO, 0, len(plan.Occurrences)),
		RoomConflicts:    plan.RoomConflicts,
		TeacherConflicts: plan.TeacherConflicts,
		Weekdays:         make([]int, 0, len(plan.Weekdays)),
	}
	for _, d := range plan.Weekdays {
		out.Weekdays = append(out.Weekdays, int(d))
	}
	for _, o := range plan.Occurrences {
		out.Occurrences = append(out.Occurrences, occurrenceDTO{
			Session:   toSessionDTO(o.Session),
			Conflicts: toConflictDTOs(o.Conflicts),
		})
	}
	return out
}

type sessionPageResponse struct {
	Sessions []sessionDTO `json:"sessions"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int          `json:"total"`
}

type slotDTO struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func toSlotDTOs(slots []calendar.TimeSlot) []slotDTO {
	out := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotDTO{Index: s.Index, Start: s.Start.String(), End: s.End.String()})
	}
	return out
}

type placementDTO struct {
	SlotIndex int               `json:"slot_index"`
	Session   sessionDTO        `json:"session"`
	Position  calendar.Position `json:"position"`
	RowSpan   int               `json:"row_span"`
	Labels    calendar.Labels   `json:"labels"`
}

type columnDTO struct {
	Key     string         `json:"key"`
	Label   string         `json:"label"`
	Date    string         `json:"date"`
	Entries []placementDTO `json:"entries"`
	Skip    []int          `json:"skip"`
	Hidden  []sessionDTO   `json:"hidden"`
}

func toColumnDTOs(columns []calendar.Column) []columnDTO {
	out := make([]columnDTO, 0, len(columns))
	for _, c := range columns {
		entries := make([]placementDTO, 0, len(c.Layout.Entries))
		for _, p := range c.Layout.Entries {
			entries = append(entries, placementDTO{
				SlotIndex: p.SlotIndex,
				Session:   toSessionDTO(p.Session),
				Position:  p.Position,
				RowSpan:   p.RowSpan,
				Labels:    p.Labels,
			})
		}
		out = append(out, columnDTO{
			Key:     c.Key,
			Label:   c.Label,
			Date:    c.Date.String(),
			Entries: entries,
			Skip:    c.Layout.Skip.Indices(),
			Hidden:  toSessionDTOs(c.Layout.Hidden),
		})
	}
	return out
}

type dayCalendarResponse struct {
	Date    string      `json:"date"`
	Slots   []slotDTO   `json:"slots"`
	Columns []columnDTO `json:"columns"`
}

type weekScheduleResponse struct {
	Start   string      `json:"start"`
	Slots   []slotDTO   `json:"slots"`
	Columns []columnDTO `json:"columns"`
}

type roomDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: formatTimestamp(room.CreatedAt),
		UpdatedAt: formatTimestamp(room.UpdatedAt),
	}
}

type namedDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toNamedDTO(id, name string, createdAt, updatedAt time.Time) namedDTO {
	return namedDTO{ID: id, Name: name, CreatedAt: formatTimestamp(createdAt), UpdatedAt: formatTimestamp(updatedAt)}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
