package calendar

import (
	"sort"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// Labels carries display names resolved for a placement.
type Labels struct {
	Room    string `json:"room"`
	Teacher string `json:"teacher"`
	Class   string `json:"class"`
}

// Placement renders one session in one slot. In absolute mode RowSpan is 1
// and Position locates the fragment; in span mode Position is the fragment in
// the anchor slot and RowSpan is the number of merged rows.
type Placement struct {
	SlotIndex int
	Session   scheduler.Session
	Position  Position
	RowSpan   int
	Labels    Labels
}

// SkipSet holds slot indices of one column that must not receive a cell of
// their own because an earlier spanning placement covers them.
type SkipSet struct {
	indices map[int]struct{}
}

func newSkipSet() SkipSet {
	return SkipSet{indices: make(map[int]struct{})}
}

// Contains reports whether slot i is covered by an earlier placement.
func (s SkipSet) Contains(i int) bool {
	_, ok := s.indices[i]
	return ok
}

// Len returns the number of skipped slots.
func (s SkipSet) Len() int { return len(s.indices) }

// Indices returns the skipped slots in ascending order.
func (s SkipSet) Indices() []int {
	out := make([]int, 0, len(s.indices))
	for i := range s.indices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// LayoutResult is the render plan for one column.
type LayoutResult struct {
	Entries []Placement
	Skip    SkipSet
	// Hidden lists sessions that received no placement: they fall outside
	// the grid, have an empty interval, or lost a slot to an earlier session.
	Hidden []scheduler.Session
}

// LayoutAbsolute places every session in each slot it overlaps, positioned
// inside the cell. Fragments thinner than the visibility floor are dropped
// for that slot, except the largest fragment of each session, which is
// always kept. Entries are ordered by slot, then start time, then ID.
func (t *SlotTable) LayoutAbsolute(sessions []scheduler.Session) LayoutResult {
	ordered := sortedByStart(sessions)
	perSlot := make([][]Placement, len(t.slots))
	hidden := make([]scheduler.Session, 0)

	for _, s := range ordered {
		if s.End <= s.Start {
			hidden = append(hidden, s)
			continue
		}
		indices := t.SlotsFor(s)
		if len(indices) == 0 {
			hidden = append(hidden, s)
			continue
		}

		fragments := make([]Position, len(indices))
		majority := 0
		for i, idx := range indices {
			fragments[i] = t.Position(s, t.slots[idx])
			if fragments[i].HeightPct > fragments[majority].HeightPct {
				majority = i
			}
		}

		for i, idx := range indices {
			if i != majority && fragments[i].HeightPct < t.floor {
				continue
			}
			perSlot[idx] = append(perSlot[idx], Placement{
				SlotIndex: idx,
				Session:   s,
				Position:  fragments[i],
				RowSpan:   1,
			})
		}
	}

	entries := make([]Placement, 0, len(ordered))
	for _, placements := range perSlot {
		entries = append(entries, placements...)
	}
	return LayoutResult{Entries: entries, Skip: newSkipSet(), Hidden: hidden}
}

// LayoutSpans renders each session once, anchored at the first slot it
// overlaps and merged across RowSpan rows. The skip set is derived before
// any rendering and the slot table is never modified. When several sessions
// claim the same anchor, or an anchor is already covered by an earlier span,
// only the first by start time and ID is placed.
func (t *SlotTable) LayoutSpans(sessions []scheduler.Session) LayoutResult {
	ordered := sortedByStart(sessions)
	skip := newSkipSet()
	claimed := make(map[int]struct{})
	entries := make([]Placement, 0, len(ordered))
	hidden := make([]scheduler.Session, 0)

	for _, s := range ordered {
		if s.End <= s.Start {
			hidden = append(hidden, s)
			continue
		}
		indices := t.SlotsFor(s)
		if len(indices) == 0 {
			hidden = append(hidden, s)
			continue
		}

		anchor := indices[0]
		if _, taken := claimed[anchor]; taken || skip.Contains(anchor) {
			hidden = append(hidden, s)
			continue
		}

		span := t.RowSpan(s, anchor)
		claimed[anchor] = struct{}{}
		for i := anchor + 1; i < anchor+span; i++ {
			skip.indices[i] = struct{}{}
		}
		entries = append(entries, Placement{
			SlotIndex: anchor,
			Session:   s,
			Position:  t.Position(s, t.slots[anchor]),
			RowSpan:   span,
		})
	}

	return LayoutResult{Entries: entries, Skip: skip, Hidden: hidden}
}

// ComputeSkipSet returns only the skip set LayoutSpans would produce.
func (t *SlotTable) ComputeSkipSet(sessions []scheduler.Session) SkipSet {
	return t.LayoutSpans(sessions).Skip
}

func sortedByStart(sessions []scheduler.Session) []scheduler.Session {
	ordered := make([]scheduler.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start < ordered[j].Start
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
