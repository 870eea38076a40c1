package calendar

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// Placeholder labels used when a referenced record is not in the directory.
const (
	UnknownRoom    = "Unknown room"
	UnknownTeacher = "Unknown teacher"
	UnknownClass   = "Unknown class"
)

// Resource is a named room, teacher or class.
type Resource struct {
	ID   string
	Name string
}

// Directory resolves display labels for referenced records.
type Directory struct {
	Rooms    []Resource
	Teachers []Resource
	Classes  []Resource
}

// Column is one rendering surface: a room on the day grid or a day on a
// weekly grid.
type Column struct {
	Key    string
	Label  string
	Date   civil.Date
	Layout LayoutResult
}

// DayLayout is the admin day grid: one absolute-position column per room.
type DayLayout struct {
	Date    civil.Date
	Slots   []TimeSlot
	Columns []Column
}

// WeekLayout is a weekly grid: seven row-span columns starting at Start.
type WeekLayout struct {
	Start   civil.Date
	Slots   []TimeSlot
	Columns []Column
}

// LayoutDay renders the sessions of date into one column per room, in the
// directory's room order. Sessions whose room is missing from the directory
// get a trailing placeholder column per room ID rather than failing the grid.
func (t *SlotTable) LayoutDay(date civil.Date, dir Directory, sessions []scheduler.Session, clock Clock) DayLayout {
	byRoom := make(map[string][]scheduler.Session)
	for _, s := range WithDerivedStatus(sessions, clock) {
		if s.Date != date {
			continue
		}
		byRoom[s.RoomID] = append(byRoom[s.RoomID], s)
	}

	labels := newLabeler(dir)
	columns := make([]Column, 0, len(dir.Rooms)+1)
	known := make(map[string]struct{}, len(dir.Rooms))
	for _, room := range dir.Rooms {
		known[room.ID] = struct{}{}
		columns = append(columns, t.dayColumn(date, room.ID, labels.room(room.ID), byRoom[room.ID], labels))
	}

	orphaned := make([]string, 0)
	for roomID := range byRoom {
		if _, ok := known[roomID]; !ok {
			orphaned = append(orphaned, roomID)
		}
	}
	sort.Strings(orphaned)
	for _, roomID := range orphaned {
		columns = append(columns, t.dayColumn(date, roomID, UnknownRoom, byRoom[roomID], labels))
	}

	return DayLayout{Date: date, Slots: t.Slots(), Columns: columns}
}

func (t *SlotTable) dayColumn(date civil.Date, key, label string, sessions []scheduler.Session, labels labeler) Column {
	layout := t.LayoutAbsolute(sessions)
	labels.apply(layout.Entries)
	return Column{Key: key, Label: label, Date: date, Layout: layout}
}

// LayoutWeek renders sessions into seven day columns starting at start. The
// caller narrows sessions to one student's classes or one teacher.
func (t *SlotTable) LayoutWeek(start civil.Date, dir Directory, sessions []scheduler.Session, clock Clock) WeekLayout {
	end := start.AddDays(7)
	byDate := make(map[civil.Date][]scheduler.Session)
	for _, s := range WithDerivedStatus(sessions, clock) {
		if s.Date.Before(start) || !s.Date.Before(end) {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	labels := newLabeler(dir)
	columns := make([]Column, 0, 7)
	for day := start; day.Before(end); day = day.AddDays(1) {
		layout := t.LayoutSpans(byDate[day])
		labels.apply(layout.Entries)
		columns = append(columns, Column{
			Key:    day.String(),
			Label:  day.In(time.UTC).Weekday().String(),
			Date:   day,
			Layout: layout,
		})
	}

	return WeekLayout{Start: start, Slots: t.Slots(), Columns: columns}
}

// WeekStart returns the Monday on or before d.
func WeekStart(d civil.Date) civil.Date {
	offset := (int(d.In(time.UTC).Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

type labeler struct {
	rooms    map[string]string
	teachers map[string]string
	classes  map[string]string
}

func newLabeler(dir Directory) labeler {
	return labeler{
		rooms:    index(dir.Rooms),
		teachers: index(dir.Teachers),
		classes:  index(dir.Classes),
	}
}

func index(resources []Resource) map[string]string {
	m := make(map[string]string, len(resources))
	for _, r := range resources {
		m[r.ID] = r.Name
	}
	return m
}

func (l labeler) room(id string) string    { return lookup(l.rooms, id, UnknownRoom) }
func (l labeler) teacher(id string) string { return lookup(l.teachers, id, UnknownTeacher) }
func (l labeler) class(id string) string   { return lookup(l.classes, id, UnknownClass) }

func (l labeler) apply(entries []Placement) {
	for i := range entries {
		s := entries[i].Session
		entries[i].Labels = Labels{
			Room:    l.room(s.RoomID),
			Teacher: l.teacher(s.TeacherID),
			Class:   l.class(s.ClassID),
		}
	}
}

func lookup(m map[string]string, id, fallback string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return fallback
}
