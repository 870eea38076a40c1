package application

import (
	"context"
	"strconv"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

type sessionRepoStub struct {
	mu        sync.Mutex
	sessions  []scheduler.Session
	createErr error
	listErr   error
	created   [][]scheduler.Session
	updated   []scheduler.Session
	filters   []SessionFilter
}

func (s *sessionRepoStub) CreateSessions(ctx context.Context, sessions []scheduler.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	batch := make([]scheduler.Session, len(sessions))
	copy(batch, sessions)
	s.created = append(s.created, batch)
	s.sessions = append(s.sessions, batch...)
	return nil
}

func (s *sessionRepoStub) UpdateSession(ctx context.Context, session scheduler.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == session.ID {
			s.sessions[i] = session
			s.updated = append(s.updated, session)
			return nil
		}
	}
	return ErrNotFound
}

func (s *sessionRepoStub) GetSession(ctx context.Context, id string) (scheduler.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return scheduler.Session{}, ErrNotFound
}

func (s *sessionRepoStub) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, session := range s.sessions {
		if session.ID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *sessionRepoStub) ListSessions(ctx context.Context, filter SessionFilter) ([]scheduler.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	if s.listErr != nil {
		return nil, s.listErr
	}
	matched := s.matchLocked(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []scheduler.Session{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *sessionRepoStub) CountSessions(ctx context.Context, filter SessionFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return 0, s.listErr
	}
	return len(s.matchLocked(filter)), nil
}

func (s *sessionRepoStub) matchLocked(filter SessionFilter) []scheduler.Session {
	out := make([]scheduler.Session, 0)
	for _, session := range s.sessions {
		if filter.RoomID != "" && session.RoomID != filter.RoomID {
			continue
		}
		if filter.TeacherID != "" && session.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ClassID != "" && session.ClassID != filter.ClassID {
			continue
		}
		if filter.From != nil && session.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && session.Date.After(*filter.To) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, session.Status) {
			continue
		}
		out = append(out, session)
	}
	scheduler.SortSessions(out)
	return out
}

func containsStatus(statuses []scheduler.Status, status scheduler.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type catalogStub struct {
	missingRooms    map[string]bool
	missingTeachers map[string]bool
	missingClasses  map[string]bool
	err             error
}

func (c *catalogStub) RoomExists(ctx context.Context, id string) (bool, error) {
	return !c.missingRooms[id], c.err
}

func (c *catalogStub) TeacherExists(ctx context.Context, id string) (bool, error) {
	return !c.missingTeachers[id], c.err
}

func (c *catalogStub) ClassExists(ctx context.Context, id string) (bool, error) {
	return !c.missingClasses[id], c.err
}

type directoryRepoStub struct {
	rooms     []Room
	teachers  []Teacher
	classes   []Class
	createErr error
	getErr    error
	listCalls int
}

func (d *directoryRepoStub) CreateRoom(ctx context.Context, room Room) (Room, error) {
	if d.createErr != nil {
		return Room{}, d.createErr
	}
	d.rooms = append(d.rooms, room)
	return room, nil
}

func (d *directoryRepoStub) GetRoom(ctx context.Context, id string) (Room, error) {
	for _, r := range d.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return Room{}, ErrNotFound
}

func (d *directoryRepoStub) ListRooms(ctx context.Context) ([]Room, error) {
	d.listCalls++
	return append([]Room(nil), d.rooms...), nil
}

func (d *directoryRepoStub) CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error) {
	if d.createErr != nil {
		return Teacher{}, d.createErr
	}
	d.teachers = append(d.teachers, teacher)
	return teacher, nil
}

func (d *directoryRepoStub) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	for _, t := range d.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return Teacher{}, ErrNotFound
}

func (d *directoryRepoStub) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return append([]Teacher(nil), d.teachers...), nil
}

func (d *directoryRepoStub) CreateClass(ctx context.Context, class Class) (Class, error) {
	if d.createErr != nil {
		return Class{}, d.createErr
	}
	d.classes = append(d.classes, class)
	return class, nil
}

func (d *directoryRepoStub) GetClass(ctx context.Context, id string) (Class, error) {
	for _, c := range d.classes {
		if c.ID == id {
			return c, nil
		}
	}
	if d.getErr != nil {
		return Class{}, d.getErr
	}
	return Class{}, ErrNotFound
}

func (d *directoryRepoStub) ListClasses(ctx context.Context) ([]Class, error) {
	return append([]Class(nil), d.classes...), nil
}

type directorySourceStub struct {
	dir calendar.Directory
	err error
}

func (d directorySourceStub) Directory(ctx context.Context) (calendar.Directory, error) {
	return d.dir, d.err
}

var monday = civil.Date{Year: 2024, Month: 5, Day: 6}

func storedSession(id string, date civil.Date, start, end, room, teacher string) scheduler.Session {
	return scheduler.Session{
		ID:        id,
		Date:      date,
		Start:     scheduler.MustParseTimeOfDay(start),
		End:       scheduler.MustParseTimeOfDay(end),
		RoomID:    room,
		TeacherID: teacher,
		ClassID:   "class-1",
		Status:    scheduler.StatusScheduled,
	}
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}
