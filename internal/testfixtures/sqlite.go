package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/learning-center-scheduler/internal/persistence"
	"github.com/example/learning-center-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style persistence tests.
type SQLiteHarness struct {
	Storage   *sqlite.Storage
	Directory persistence.DirectoryRepository
	Sessions  persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "scheduler.db")

	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:   storage,
		Directory: storage,
		Sessions:  storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedDirectory stores the rooms room-a and room-b, the teachers teacher-1
// and teacher-2, and the classes class-1 and class-2 that session fixtures
// refer to by default.
func (h *SQLiteHarness) SeedDirectory(tb testing.TB) {
	tb.Helper()
	ctx := context.Background()

	rooms := []RoomFixture{
		NewRoomFixture(WithRoomID("room-a"), WithRoomName("Room A")),
		NewRoomFixture(WithRoomID("room-b"), WithRoomName("Room B"), WithRoomCapacity(8)),
	}
	for _, room := range rooms {
		if err := h.Directory.CreateRoom(ctx, room.Persistence()); err != nil {
			tb.Fatalf("failed to seed room %s: %v", room.ID, err)
		}
	}

	teachers := []NamedFixture{
		NewTeacherFixture(WithNamedID("teacher-1"), WithName("Sato")),
		NewTeacherFixture(WithNamedID("teacher-2"), WithName("Ito")),
	}
	for _, teacher := range teachers {
		if err := h.Directory.CreateTeacher(ctx, teacher.Teacher()); err != nil {
			tb.Fatalf("failed to seed teacher %s: %v", teacher.ID, err)
		}
	}

	classes := []NamedFixture{
		NewClassFixture(WithNamedID("class-1"), WithName("Math")),
		NewClassFixture(WithNamedID("class-2"), WithName("English")),
	}
	for _, class := range classes {
		if err := h.Directory.CreateClass(ctx, class.Class()); err != nil {
			tb.Fatalf("failed to seed class %s: %v", class.ID, err)
		}
	}
}
