package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/learning-center-scheduler/internal/persistence"
	"github.com/example/learning-center-scheduler/internal/scheduler"
	"github.com/example/learning-center-scheduler/internal/testfixtures"
)

func newPersistenceSession(opts ...testfixtures.SessionOption) persistence.Session {
	return testfixtures.NewSessionFixture(opts...).Persistence()
}

func TestDirectoryRepositoryContract(t *testing.T) {
	t.Parallel()

	t.Run("rooms round trip and names are unique", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		room := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Studio"), testfixtures.WithRoomCapacity(4))
		if err := harness.Directory.CreateRoom(ctx, room.Persistence()); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}

		fetched, err := harness.Directory.GetRoom(ctx, room.ID)
		if err != nil {
			t.Fatalf("GetRoom failed: %v", err)
		}
		if fetched.Name != "Studio" || fetched.Capacity != 4 || !fetched.CreatedAt.Equal(room.CreatedAt) {
			t.Fatalf("unexpected room: %#v", fetched)
		}

		duplicate := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Studio"))
		if err := harness.Directory.CreateRoom(ctx, duplicate.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected persistence.ErrDuplicate, got %v", err)
		}
	})

	t.Run("seeded teachers and classes are listed", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		harness.SeedDirectory(t)

		teachers, err := harness.Directory.ListTeachers(ctx)
		if err != nil {
			t.Fatalf("ListTeachers failed: %v", err)
		}
		classes, err := harness.Directory.ListClasses(ctx)
		if err != nil {
			t.Fatalf("ListClasses failed: %v", err)
		}
		if len(teachers) != 2 || len(classes) != 2 {
			t.Fatalf("expected two teachers and two classes, got %d and %d", len(teachers), len(classes))
		}
		if _, err := harness.Directory.GetTeacher(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected persistence.ErrNotFound, got %v", err)
		}
	})
}

func TestSessionRepositoryContract(t *testing.T) {
	t.Parallel()

	t.Run("stores every field of a session", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		harness.SeedDirectory(t)

		session := newPersistenceSession(
			testfixtures.WithSessionTimes("13:15", "14:45"),
			testfixtures.WithSessionRoom("room-b"),
			testfixtures.WithSessionTeacher("teacher-2"),
			testfixtures.WithSessionClass("class-2"),
			testfixtures.WithSessionStatus(scheduler.StatusConfirmed),
			testfixtures.WithSessionMakeup(),
		)
		if err := harness.Sessions.CreateSessions(ctx, []persistence.Session{session}); err != nil {
			t.Fatalf("CreateSessions failed: %v", err)
		}

		fetched, err := harness.Sessions.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if fetched.Date != session.Date || fetched.StartSeconds != session.StartSeconds || fetched.EndSeconds != session.EndSeconds {
			t.Fatalf("unexpected schedule: %#v", fetched)
		}
		if fetched.RoomID != "room-b" || fetched.TeacherID != "teacher-2" || fetched.ClassID != "class-2" {
			t.Fatalf("unexpected references: %#v", fetched)
		}
		if fetched.Status != persistence.StatusConfirmed || !fetched.IsMakeupClass {
			t.Fatalf("unexpected flags: %#v", fetched)
		}
	})

	t.Run("count ignores paging", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		harness.SeedDirectory(t)

		date := testfixtures.ReferenceDate()
		batch := []persistence.Session{
			newPersistenceSession(testfixtures.WithSessionDate(date), testfixtures.WithSessionTimes("09:00", "10:00")),
			newPersistenceSession(testfixtures.WithSessionDate(date), testfixtures.WithSessionTimes("10:00", "11:00")),
			newPersistenceSession(testfixtures.WithSessionDate(date), testfixtures.WithSessionTimes("11:00", "12:00")),
		}
		if err := harness.Sessions.CreateSessions(ctx, batch); err != nil {
			t.Fatalf("CreateSessions failed: %v", err)
		}

		filter := persistence.SessionFilter{RoomID: "room-a", From: &date, To: &date, Limit: 2, Offset: 2}
		page, err := harness.Sessions.ListSessions(ctx, filter)
		if err != nil {
			t.Fatalf("ListSessions failed: %v", err)
		}
		total, err := harness.Sessions.CountSessions(ctx, filter)
		if err != nil {
			t.Fatalf("CountSessions failed: %v", err)
		}
		if total != 3 || len(page) != 1 || page[0].ID != batch[2].ID {
			t.Fatalf("unexpected page: total %d, %#v", total, page)
		}
	})

	t.Run("cancelling frees the room for a later booking", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		harness.SeedDirectory(t)

		first := newPersistenceSession()
		if err := harness.Sessions.CreateSessions(ctx, []persistence.Session{first}); err != nil {
			t.Fatalf("CreateSessions failed: %v", err)
		}

		second := newPersistenceSession(testfixtures.WithSessionTeacher("teacher-2"))
		if err := harness.Sessions.CreateSessions(ctx, []persistence.Session{second}); !errors.Is(err, persistence.ErrOverlap) {
			t.Fatalf("expected persistence.ErrOverlap, got %v", err)
		}

		first.Status = persistence.StatusCancelled
		if err := harness.Sessions.UpdateSession(ctx, first); err != nil {
			t.Fatalf("UpdateSession failed: %v", err)
		}
		if err := harness.Sessions.CreateSessions(ctx, []persistence.Session{second}); err != nil {
			t.Fatalf("expected the room to be free after cancellation, got %v", err)
		}
	})
}
