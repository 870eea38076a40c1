package persistence

import (
	"time"

	"cloud.google.com/go/civil"
)

// Session status values as stored.
const (
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Room represents a classroom catalog entry.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Teacher represents an instructor who can be booked for sessions.
type Teacher struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Class represents a group of students attending sessions together.
type Class struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents one stored lesson. Times are seconds since midnight.
type Session struct {
	ID            string
	Date          civil.Date
	StartSeconds  int
	EndSeconds    int
	RoomID        string
	TeacherID     string
	ClassID       string
	Status        string
	IsMakeupClass bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
