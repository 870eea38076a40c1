package calendar

import (
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// Config describes the display grid. The admin day view and the weekly views
// may use different slot widths, so a table is built per view.
type Config struct {
	SlotStartHour          int
	SlotEndHour            int
	SlotWidthMinutes       int
	VisibilityFloorPercent float64
}

// DefaultConfig returns hourly buckets from 07:00 to 21:00 with a 10% floor.
func DefaultConfig() Config {
	return Config{
		SlotStartHour:          7,
		SlotEndHour:            21,
		SlotWidthMinutes:       60,
		VisibilityFloorPercent: 10,
	}
}

// TimeSlot is one fixed-width bucket of the grid.
type TimeSlot struct {
	Index int                 `json:"index"`
	Start scheduler.TimeOfDay `json:"start"`
	End   scheduler.TimeOfDay `json:"end"`
}

// Interval returns the slot's half-open time range.
func (s TimeSlot) Interval() scheduler.Interval {
	return scheduler.Interval{Start: s.Start, End: s.End}
}

// SlotTable is the immutable ordered list of slots shared by every column of
// a rendered grid.
type SlotTable struct {
	slots []TimeSlot
	width int
	floor float64
}

// NewSlotTable derives the slot table from cfg.
func NewSlotTable(cfg Config) (*SlotTable, error) {
	if cfg.SlotStartHour < 0 || cfg.SlotStartHour > 23 {
		return nil, scheduler.NewValidationError("slot_start_hour", "slot start hour out of range")
	}
	if cfg.SlotEndHour <= cfg.SlotStartHour || cfg.SlotEndHour > 24 {
		return nil, scheduler.NewValidationError("slot_end_hour", "slot end hour must be after start hour")
	}
	if cfg.SlotWidthMinutes <= 0 {
		return nil, scheduler.NewValidationError("slot_width_minutes", "slot width must be positive")
	}
	total := (cfg.SlotEndHour - cfg.SlotStartHour) * 60
	if total%cfg.SlotWidthMinutes != 0 {
		return nil, scheduler.NewValidationError("slot_width_minutes", "slot width must divide the grid range")
	}
	if cfg.VisibilityFloorPercent < 0 || cfg.VisibilityFloorPercent > 100 {
		return nil, scheduler.NewValidationError("visibility_floor_percent", "visibility floor must be between 0 and 100")
	}

	count := total / cfg.SlotWidthMinutes
	slots := make([]TimeSlot, count)
	start := scheduler.NewTimeOfDay(cfg.SlotStartHour, 0, 0)
	step := scheduler.TimeOfDay(cfg.SlotWidthMinutes * 60)
	for i := range slots {
		slots[i] = TimeSlot{
			Index: i,
			Start: start + scheduler.TimeOfDay(i)*step,
			End:   start + scheduler.TimeOfDay(i+1)*step,
		}
	}

	return &SlotTable{slots: slots, width: cfg.SlotWidthMinutes, floor: cfg.VisibilityFloorPercent}, nil
}

// MustSlotTable is like NewSlotTable but panics on invalid configuration.
func MustSlotTable(cfg Config) *SlotTable {
	t, err := NewSlotTable(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// Slots returns a copy of the slots in order.
func (t *SlotTable) Slots() []TimeSlot {
	out := make([]TimeSlot, len(t.slots))
	copy(out, t.slots)
	return out
}

// Len returns the number of slots.
func (t *SlotTable) Len() int { return len(t.slots) }

// Slot returns the slot at index i.
func (t *SlotTable) Slot(i int) TimeSlot { return t.slots[i] }

// WidthMinutes returns the slot width.
func (t *SlotTable) WidthMinutes() int { return t.width }

// VisibilityFloor returns the minimum fragment height, in percent.
func (t *SlotTable) VisibilityFloor() float64 { return t.floor }

// SlotsFor returns the indices of every slot the session overlaps, ascending.
func (t *SlotTable) SlotsFor(s scheduler.Session) []int {
	interval := s.Interval()
	indices := make([]int, 0, 2)
	for _, slot := range t.slots {
		if scheduler.Overlaps(interval, slot.Interval()) {
			indices = append(indices, slot.Index)
		}
	}
	return indices
}
