package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/persistence"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

var (
	roomCounter    uint64
	teacherCounter uint64
	classCounter   uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate is the calendar date of ReferenceTime.
func ReferenceDate() civil.Date {
	return civil.DateOf(referenceTime)
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic classroom record.
type RoomFixture struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RoomFixture{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  12,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated room capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// Application converts the fixture into an application.Room.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence converts the fixture into a persistence.Room.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input converts the fixture into an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	return application.RoomInput{Name: f.Name, Capacity: f.Capacity}
}

// ------------------------ Teacher and class fixtures ------------------------

// NamedFixture represents a deterministic teacher or class record.
type NamedFixture struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NamedOption configures a teacher or class fixture.
type NamedOption func(*NamedFixture)

// NewTeacherFixture returns a deterministic teacher fixture.
func NewTeacherFixture(opts ...NamedOption) NamedFixture {
	idx := atomic.AddUint64(&teacherCounter, 1)
	return newNamedFixture(fmt.Sprintf("teacher-%03d", idx), fmt.Sprintf("Teacher %03d", idx), idx, opts)
}

// NewClassFixture returns a deterministic class fixture.
func NewClassFixture(opts ...NamedOption) NamedFixture {
	idx := atomic.AddUint64(&classCounter, 1)
	return newNamedFixture(fmt.Sprintf("class-%03d", idx), fmt.Sprintf("Class %03d", idx), idx, opts)
}

func newNamedFixture(id, name string, idx uint64, opts []NamedOption) NamedFixture {
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := NamedFixture{ID: id, Name: name, CreatedAt: created, UpdatedAt: created}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithNamedID overrides the generated ID.
func WithNamedID(id string) NamedOption {
	return func(f *NamedFixture) {
		f.ID = id
	}
}

// WithName overrides the generated name.
func WithName(name string) NamedOption {
	return func(f *NamedFixture) {
		f.Name = name
	}
}

// Teacher converts the fixture into a persistence.Teacher.
func (f NamedFixture) Teacher() persistence.Teacher {
	return persistence.Teacher{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

// Class converts the fixture into a persistence.Class.
func (f NamedFixture) Class() persistence.Class {
	return persistence.Class{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

// ---------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic lesson. The default is a
// scheduled 09:00-10:00 session on ReferenceDate.
type SessionFixture struct {
	ID            string
	Date          civil.Date
	Start         scheduler.TimeOfDay
	End           scheduler.TimeOfDay
	RoomID        string
	TeacherID     string
	ClassID       string
	Status        scheduler.Status
	IsMakeupClass bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional
// overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		Date:      ReferenceDate(),
		Start:     scheduler.NewTimeOfDay(9, 0, 0),
		End:       scheduler.NewTimeOfDay(10, 0, 0),
		RoomID:    "room-a",
		TeacherID: "teacher-1",
		ClassID:   "class-1",
		Status:    scheduler.StatusScheduled,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionDate overrides the session date.
func WithSessionDate(date civil.Date) SessionOption {
	return func(f *SessionFixture) {
		f.Date = date
	}
}

// WithSessionTimes sets start and end from "HH:MM" strings.
func WithSessionTimes(start, end string) SessionOption {
	return func(f *SessionFixture) {
		f.Start = scheduler.MustParseTimeOfDay(start)
		f.End = scheduler.MustParseTimeOfDay(end)
	}
}

// WithSessionRoom overrides the booked room.
func WithSessionRoom(id string) SessionOption {
	return func(f *SessionFixture) {
		f.RoomID = id
	}
}

// WithSessionTeacher overrides the booked teacher.
func WithSessionTeacher(id string) SessionOption {
	return func(f *SessionFixture) {
		f.TeacherID = id
	}
}

// WithSessionClass overrides the attending class.
func WithSessionClass(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ClassID = id
	}
}

// WithSessionStatus overrides the stored status.
func WithSessionStatus(status scheduler.Status) SessionOption {
	return func(f *SessionFixture) {
		f.Status = status
	}
}

// WithSessionMakeup marks the session as a makeup class.
func WithSessionMakeup() SessionOption {
	return func(f *SessionFixture) {
		f.IsMakeupClass = true
	}
}

// Scheduler converts the fixture into a scheduler.Session.
func (f SessionFixture) Scheduler() scheduler.Session {
	return scheduler.Session{
		ID:            f.ID,
		Date:          f.Date,
		Start:         f.Start,
		End:           f.End,
		RoomID:        f.RoomID,
		TeacherID:     f.TeacherID,
		ClassID:       f.ClassID,
		Status:        f.Status,
		IsMakeupClass: f.IsMakeupClass,
	}
}

// Persistence converts the fixture into a persistence.Session.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:            f.ID,
		Date:          f.Date,
		StartSeconds:  int(f.Start),
		EndSeconds:    int(f.End),
		RoomID:        f.RoomID,
		TeacherID:     f.TeacherID,
		ClassID:       f.ClassID,
		Status:        string(f.Status),
		IsMakeupClass: f.IsMakeupClass,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Input converts the fixture into the string form callers submit.
func (f SessionFixture) Input() application.SessionInput {
	return application.SessionInput{
		Date:          f.Date.String(),
		StartTime:     f.Start.String(),
		EndTime:       f.End.String(),
		RoomID:        f.RoomID,
		TeacherID:     f.TeacherID,
		ClassID:       f.ClassID,
		Status:        string(f.Status),
		IsMakeupClass: f.IsMakeupClass,
	}
}
