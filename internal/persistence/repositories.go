package persistence

import (
	"context"

	"cloud.google.com/go/civil"
)

// DirectoryRepository stores the rooms, teachers and classes sessions refer to.
type DirectoryRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	CreateTeacher(ctx context.Context, teacher Teacher) error
	GetTeacher(ctx context.Context, id string) (Teacher, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
	CreateClass(ctx context.Context, class Class) error
	GetClass(ctx context.Context, id string) (Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
}

// SessionFilter narrows session queries. Empty fields match everything; From
// and To are inclusive. Limit <= 0 means no limit.
type SessionFilter struct {
	RoomID    string
	TeacherID string
	ClassID   string
	From      *civil.Date
	To        *civil.Date
	Statuses  []string
	Limit     int
	Offset    int
}

// SessionRepository stores sessions and guarantees that no two
// non-cancelled sessions share a room at overlapping times.
type SessionRepository interface {
	// CreateSessions inserts every session or none. It fails with ErrOverlap
	// when any session collides with a stored one or with another in the batch.
	CreateSessions(ctx context.Context, sessions []Session) error
	UpdateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, filter SessionFilter) ([]Session, error)
	CountSessions(ctx context.Context, filter SessionFilter) (int, error)
}
