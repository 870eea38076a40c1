package testfixtures

import (
	"context"
	"testing"

	"github.com/example/learning-center-scheduler/internal/application"
)

type capturingDirectoryRepo struct {
	created application.Room
}

func (c *capturingDirectoryRepo) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	c.created = room
	return room, nil
}

func (c *capturingDirectoryRepo) GetRoom(ctx context.Context, id string) (application.Room, error) {
	return application.Room{}, application.ErrNotFound
}

func (c *capturingDirectoryRepo) ListRooms(ctx context.Context) ([]application.Room, error) {
	return nil, nil
}

func (c *capturingDirectoryRepo) CreateTeacher(ctx context.Context, teacher application.Teacher) (application.Teacher, error) {
	return teacher, nil
}

func (c *capturingDirectoryRepo) GetTeacher(ctx context.Context, id string) (application.Teacher, error) {
	return application.Teacher{}, application.ErrNotFound
}

func (c *capturingDirectoryRepo) ListTeachers(ctx context.Context) ([]application.Teacher, error) {
	return nil, nil
}

func (c *capturingDirectoryRepo) CreateClass(ctx context.Context, class application.Class) (application.Class, error) {
	return class, nil
}

func (c *capturingDirectoryRepo) GetClass(ctx context.Context, id string) (application.Class, error) {
	return application.Class{}, application.ErrNotFound
}

func (c *capturingDirectoryRepo) ListClasses(ctx context.Context) ([]application.Class, error) {
	return nil, nil
}

func TestServiceFactoryNewDirectoryService(t *testing.T) {
	factory := NewServiceFactory()
	repo := &capturingDirectoryRepo{}

	svc := factory.NewDirectoryService(DirectoryServiceDeps{Directory: repo})
	room, err := svc.CreateRoom(context.Background(), NewRoomFixture(WithRoomName("Room A")).Input())
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	if room.ID != "id-1" {
		t.Fatalf("expected generated ID id-1, got %q", room.ID)
	}
	if repo.created.ID != room.ID {
		t.Fatalf("repository received unexpected ID: %q", repo.created.ID)
	}
	if !room.CreatedAt.Equal(factory.Clock.Current()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Current(), room.CreatedAt)
	}

	exists, err := svc.RoomExists(context.Background(), "missing")
	if err != nil || exists {
		t.Fatalf("expected missing room to be reported absent, got %v %v", exists, err)
	}
}

func TestServiceFactoryNewSessionServiceRejectsInvalidInput(t *testing.T) {
	factory := NewServiceFactory(WithIDGenerator(NewIDGenerator("session")))
	svc := factory.NewSessionService(SessionServiceDeps{})

	input := NewSessionFixture(WithSessionTimes("10:00", "09:00")).Input()
	_, err := svc.CreateSession(context.Background(), input)
	if _, ok := err.(*application.ValidationError); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceFactoryNewCalendarServiceUsesFactoryClock(t *testing.T) {
	factory := NewServiceFactory()
	svc := factory.NewCalendarService(CalendarServiceDeps{})

	_, err := svc.WeekSchedule(context.Background(), application.WeekScheduleParams{Date: ReferenceDate()})
	if _, ok := err.(*application.ValidationError); !ok {
		t.Fatalf("expected validation error for a missing subject, got %v", err)
	}
}
