package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/persistence"
)

// DirectoryRepository captures the persistence operations needed for rooms,
// teachers and classes.
type DirectoryRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error)
	GetTeacher(ctx context.Context, id string) (Teacher, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
	CreateClass(ctx context.Context, class Class) (Class, error)
	GetClass(ctx context.Context, id string) (Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
}

// DirectoryService manages the records sessions refer to. It also serves as
// the ResourceCatalog for SessionService and the label source for calendars.
type DirectoryService struct {
	repo        DirectoryRepository
	idGenerator func() string
	now         func() time.Time
	cache       *directoryCache
	logger      *slog.Logger
}

// NewDirectoryService constructs a directory service with the provided dependencies.
func NewDirectoryService(repo DirectoryRepository, idGenerator func() string, now func() time.Time) *DirectoryService {
	return NewDirectoryServiceWithLogger(repo, idGenerator, now, nil)
}

// NewDirectoryServiceWithLogger constructs a directory service with a specified logger.
func NewDirectoryServiceWithLogger(repo DirectoryRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DirectoryService{
		repo:        repo,
		idGenerator: idGenerator,
		now:         now,
		cache:       newDirectoryCache(30*time.Second, now),
		logger:      defaultLogger(logger),
	}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

// CreateRoom validates input and persists a new room.
func (s *DirectoryService) CreateRoom(ctx context.Context, input RoomInput) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	vErr := &ValidationError{}
	validateName(vErr, input.Name)
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity must not be negative")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = Room{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Capacity:  input.Capacity,
		CreatedAt: s.now(),
	}
	room.UpdatedAt = room.CreatedAt

	if s.repo == nil {
		return
	}

	var persisted Room
	persisted, err = s.repo.CreateRoom(ctx, room)
	if err != nil {
		err = mapDirectoryRepoError(err)
		return
	}
	s.cache.Invalidate()

	room = persisted
	return
}

// ListRooms returns every room ordered by name then ID.
func (s *DirectoryService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil {
		return nil, fmt.Errorf("DirectoryService is nil")
	}
	if s.repo == nil {
		return []Room{}, nil
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListRooms").ErrorContext(ctx, "failed to list rooms", "error", err)
		return nil, err
	}
	return rooms, nil
}

// CreateTeacher validates input and persists a new teacher.
func (s *DirectoryService) CreateTeacher(ctx context.Context, input NamedInput) (teacher Teacher, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTeacher")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create teacher", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("teacher_id", teacher.ID).InfoContext(ctx, "teacher created")
	}()

	vErr := &ValidationError{}
	validateName(vErr, input.Name)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	teacher = Teacher{ID: s.idGenerator(), Name: strings.TrimSpace(input.Name), CreatedAt: s.now()}
	teacher.UpdatedAt = teacher.CreatedAt
	if s.repo == nil {
		return
	}

	var persisted Teacher
	persisted, err = s.repo.CreateTeacher(ctx, teacher)
	if err != nil {
		err = mapDirectoryRepoError(err)
		return
	}
	s.cache.Invalidate()

	teacher = persisted
	return
}

// ListTeachers returns every teacher ordered by name then ID.
func (s *DirectoryService) ListTeachers(ctx context.Context) ([]Teacher, error) {
	if s == nil {
		return nil, fmt.Errorf("DirectoryService is nil")
	}
	if s.repo == nil {
		return []Teacher{}, nil
	}
	teachers, err := s.repo.ListTeachers(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListTeachers").ErrorContext(ctx, "failed to list teachers", "error", err)
		return nil, err
	}
	return teachers, nil
}

// CreateClass validates input and persists a new class.
func (s *DirectoryService) CreateClass(ctx context.Context, input NamedInput) (class Class, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateClass")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create class", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("class_id", class.ID).InfoContext(ctx, "class created")
	}()

	vErr := &ValidationError{}
	validateName(vErr, input.Name)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	class = Class{ID: s.idGenerator(), Name: strings.TrimSpace(input.Name), CreatedAt: s.now()}
	class.UpdatedAt = class.CreatedAt
	if s.repo == nil {
		return
	}

	var persisted Class
	persisted, err = s.repo.CreateClass(ctx, class)
	if err != nil {
		err = mapDirectoryRepoError(err)
		return
	}
	s.cache.Invalidate()

	class = persisted
	return
}

// ListClasses returns every class ordered by name then ID.
func (s *DirectoryService) ListClasses(ctx context.Context) ([]Class, error) {
	if s == nil {
		return nil, fmt.Errorf("DirectoryService is nil")
	}
	if s.repo == nil {
		return []Class{}, nil
	}
	classes, err := s.repo.ListClasses(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListClasses").ErrorContext(ctx, "failed to list classes", "error", err)
		return nil, err
	}
	return classes, nil
}

// RoomExists reports whether a room with id is stored.
func (s *DirectoryService) RoomExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, func() error {
		_, err := s.repo.GetRoom(ctx, id)
		return err
	})
}

// TeacherExists reports whether a teacher with id is stored.
func (s *DirectoryService) TeacherExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, func() error {
		_, err := s.repo.GetTeacher(ctx, id)
		return err
	})
}

// ClassExists reports whether a class with id is stored.
func (s *DirectoryService) ClassExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, func() error {
		_, err := s.repo.GetClass(ctx, id)
		return err
	})
}

func (s *DirectoryService) exists(ctx context.Context, get func() error) (bool, error) {
	if s == nil || s.repo == nil {
		return true, nil
	}
	err := mapDirectoryRepoError(get())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	}
	return false, err
}

// Directory returns the display labels for every room, teacher and class.
// Results are cached briefly and dropped whenever a record is created.
func (s *DirectoryService) Directory(ctx context.Context) (calendar.Directory, error) {
	if s == nil {
		return calendar.Directory{}, fmt.Errorf("DirectoryService is nil")
	}
	if dir, ok := s.cache.Get(); ok {
		return dir, nil
	}

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return calendar.Directory{}, err
	}
	teachers, err := s.ListTeachers(ctx)
	if err != nil {
		return calendar.Directory{}, err
	}
	classes, err := s.ListClasses(ctx)
	if err != nil {
		return calendar.Directory{}, err
	}

	dir := calendar.Directory{
		Rooms:    make([]calendar.Resource, 0, len(rooms)),
		Teachers: make([]calendar.Resource, 0, len(teachers)),
		Classes:  make([]calendar.Resource, 0, len(classes)),
	}
	for _, r := range rooms {
		dir.Rooms = append(dir.Rooms, calendar.Resource{ID: r.ID, Name: r.Name})
	}
	for _, t := range teachers {
		dir.Teachers = append(dir.Teachers, calendar.Resource{ID: t.ID, Name: t.Name})
	}
	for _, c := range classes {
		dir.Classes = append(dir.Classes, calendar.Resource{ID: c.ID, Name: c.Name})
	}

	s.cache.Store(dir)
	return dir, nil
}

func validateName(vErr *ValidationError, name string) {
	if strings.TrimSpace(name) == "" {
		vErr.add("name", "name is required")
	}
}

func mapDirectoryRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("name", "name is invalid")
		return vErr
	}
	return err
}
