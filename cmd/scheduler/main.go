package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/config"
	httptransport "github.com/example/learning-center-scheduler/internal/http"
	"github.com/example/learning-center-scheduler/internal/logging"
	"github.com/example/learning-center-scheduler/internal/persistence"
	"github.com/example/learning-center-scheduler/internal/persistence/sqlite"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("scheduler stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, err := sqlite.OpenWithLogger(cfg.SQLiteDSN, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	handler, err := newHandler(storage, cfg, time.Now, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// newHandler wires repositories, services and handlers into the API router.
func newHandler(storage *sqlite.Storage, cfg config.Config, now func() time.Time, logger *slog.Logger) (http.Handler, error) {
	dayGrid, err := calendar.NewSlotTable(cfg.DayGrid())
	if err != nil {
		return nil, fmt.Errorf("day grid: %w", err)
	}
	weekGrid, err := calendar.NewSlotTable(cfg.WeekGrid())
	if err != nil {
		return nil, fmt.Errorf("week grid: %w", err)
	}

	sessionRepo := newSessionRepositoryAdapter(storage)
	directoryRepo := newDirectoryRepositoryAdapter(storage)

	directoryService := application.NewDirectoryServiceWithLogger(directoryRepo, uuid.NewString, now, logger)
	sessionService := application.NewSessionServiceWithLogger(sessionRepo, directoryService, uuid.NewString, now, cfg.MaxRecurrenceDays, logger)
	calendarService := application.NewCalendarServiceWithLogger(sessionRepo, directoryService, dayGrid, weekGrid, now, logger)

	today := func() civil.Date { return civil.DateOf(now()) }

	return httptransport.NewRouter(httptransport.RouterConfig{
		Calendar:  httptransport.NewCalendarHandler(calendarService, today, logger),
		Sessions:  httptransport.NewSessionHandler(sessionService, logger),
		Directory: httptransport.NewDirectoryHandler(directoryService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	}), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSessions(ctx context.Context, sessions []scheduler.Session) error {
	models := make([]persistence.Session, 0, len(sessions))
	for _, s := range sessions {
		models = append(models, toPersistenceSession(s))
	}
	return a.repo.CreateSessions(ctx, models)
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session scheduler.Session) error {
	return a.repo.UpdateSession(ctx, toPersistenceSession(session))
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, id string) (scheduler.Session, error) {
	stored, err := a.repo.GetSession(ctx, id)
	if err != nil {
		return scheduler.Session{}, err
	}
	return toSchedulerSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteSession(ctx context.Context, id string) error {
	return a.repo.DeleteSession(ctx, id)
}

func (a *sessionRepositoryAdapter) ListSessions(ctx context.Context, filter application.SessionFilter) ([]scheduler.Session, error) {
	models, err := a.repo.ListSessions(ctx, toPersistenceFilter(filter))
	if err != nil {
		return nil, err
	}
	sessions := make([]scheduler.Session, 0, len(models))
	for _, model := range models {
		sessions = append(sessions, toSchedulerSession(model))
	}
	return sessions, nil
}

func (a *sessionRepositoryAdapter) CountSessions(ctx context.Context, filter application.SessionFilter) (int, error) {
	return a.repo.CountSessions(ctx, toPersistenceFilter(filter))
}

type directoryRepositoryAdapter struct {
	repo persistence.DirectoryRepository
}

func newDirectoryRepositoryAdapter(repo persistence.DirectoryRepository) *directoryRepositoryAdapter {
	return &directoryRepositoryAdapter{repo: repo}
}

func (a *directoryRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	return a.GetRoom(ctx, room.ID)
}

func (a *directoryRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *directoryRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

func (a *directoryRepositoryAdapter) CreateTeacher(ctx context.Context, teacher application.Teacher) (application.Teacher, error) {
	if err := a.repo.CreateTeacher(ctx, persistence.Teacher{
		ID:        teacher.ID,
		Name:      teacher.Name,
		CreatedAt: teacher.CreatedAt,
		UpdatedAt: teacher.UpdatedAt,
	}); err != nil {
		return application.Teacher{}, err
	}
	return a.GetTeacher(ctx, teacher.ID)
}

func (a *directoryRepositoryAdapter) GetTeacher(ctx context.Context, id string) (application.Teacher, error) {
	stored, err := a.repo.GetTeacher(ctx, id)
	if err != nil {
		return application.Teacher{}, err
	}
	return toApplicationTeacher(stored), nil
}

func (a *directoryRepositoryAdapter) ListTeachers(ctx context.Context) ([]application.Teacher, error) {
	models, err := a.repo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	teachers := make([]application.Teacher, 0, len(models))
	for _, model := range models {
		teachers = append(teachers, toApplicationTeacher(model))
	}
	return teachers, nil
}

func (a *directoryRepositoryAdapter) CreateClass(ctx context.Context, class application.Class) (application.Class, error) {
	if err := a.repo.CreateClass(ctx, persistence.Class{
		ID:        class.ID,
		Name:      class.Name,
		CreatedAt: class.CreatedAt,
		UpdatedAt: class.UpdatedAt,
	}); err != nil {
		return application.Class{}, err
	}
	return a.GetClass(ctx, class.ID)
}

func (a *directoryRepositoryAdapter) GetClass(ctx context.Context, id string) (application.Class, error) {
	stored, err := a.repo.GetClass(ctx, id)
	if err != nil {
		return application.Class{}, err
	}
	return toApplicationClass(stored), nil
}

func (a *directoryRepositoryAdapter) ListClasses(ctx context.Context) ([]application.Class, error) {
	models, err := a.repo.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	classes := make([]application.Class, 0, len(models))
	for _, model := range models {
		classes = append(classes, toApplicationClass(model))
	}
	return classes, nil
}

func toSchedulerSession(model persistence.Session) scheduler.Session {
	return scheduler.Session{
		ID:            model.ID,
		Date:          model.Date,
		Start:         scheduler.TimeOfDay(model.StartSeconds),
		End:           scheduler.TimeOfDay(model.EndSeconds),
		RoomID:        model.RoomID,
		TeacherID:     model.TeacherID,
		ClassID:       model.ClassID,
		Status:        scheduler.Status(model.Status),
		IsMakeupClass: model.IsMakeupClass,
	}
}

func toPersistenceSession(session scheduler.Session) persistence.Session {
	return persistence.Session{
		ID:            session.ID,
		Date:          session.Date,
		StartSeconds:  int(session.Start),
		EndSeconds:    int(session.End),
		RoomID:        session.RoomID,
		TeacherID:     session.TeacherID,
		ClassID:       session.ClassID,
		Status:        string(session.Status),
		IsMakeupClass: session.IsMakeupClass,
	}
}

func toPersistenceFilter(filter application.SessionFilter) persistence.SessionFilter {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}
	return persistence.SessionFilter{
		RoomID:    filter.RoomID,
		TeacherID: filter.TeacherID,
		ClassID:   filter.ClassID,
		From:      filter.From,
		To:        filter.To,
		Statuses:  statuses,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:        model.ID,
		Name:      model.Name,
		Capacity:  model.Capacity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func toApplicationTeacher(model persistence.Teacher) application.Teacher {
	return application.Teacher{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt, UpdatedAt: model.UpdatedAt}
}

func toApplicationClass(model persistence.Class) application.Class {
	return application.Class{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt, UpdatedAt: model.UpdatedAt}
}
