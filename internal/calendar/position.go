package calendar

import (
	"math"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// Position locates a session fragment inside one slot cell, in percent of
// the slot height.
type Position struct {
	StartPct  float64 `json:"start_pct"`
	EndPct    float64 `json:"end_pct"`
	HeightPct float64 `json:"height_pct"`
}

// Position computes where s falls inside slot. Both edges are clamped to the
// cell, so a session extending past the slot fills it to the edge.
func (t *SlotTable) Position(s scheduler.Session, slot TimeSlot) Position {
	width := float64(t.width)
	slotStart := slot.Start.Minutes()

	startPct := clamp((s.Start.Minutes()-slotStart)/width*100, 0, 100)
	endPct := clamp((s.End.Minutes()-slotStart)/width*100, 0, 100)
	return Position{
		StartPct:  startPct,
		EndPct:    endPct,
		HeightPct: endPct - startPct,
	}
}

// RowSpan returns how many consecutive slots a session anchored at anchor
// covers: ceil(duration/width), capped by the slots remaining in the column
// and never less than one. Time before the first slot does not count.
func (t *SlotTable) RowSpan(s scheduler.Session, anchor int) int {
	start := s.Start
	if gridStart := t.slots[0].Start; start < gridStart {
		start = gridStart
	}
	span := int(math.Ceil((s.End - start).Minutes() / float64(t.width)))
	if remaining := len(t.slots) - anchor; span > remaining {
		span = remaining
	}
	if span < 1 {
		span = 1
	}
	return span
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
