package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/learning-center-scheduler/internal/calendar"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

// DirectorySource supplies display labels for calendar rendering.
type DirectorySource interface {
	Directory(ctx context.Context) (calendar.Directory, error)
}

// CalendarService renders stored sessions onto the day and weekly grids.
type CalendarService struct {
	sessions  SessionRepository
	directory DirectorySource
	day       *calendar.SlotTable
	week      *calendar.SlotTable
	clock     calendar.Clock
	logger    *slog.Logger
}

// NewCalendarService wires dependencies using the default slot tables.
func NewCalendarService(sessions SessionRepository, directory DirectorySource, now func() time.Time) *CalendarService {
	return NewCalendarServiceWithLogger(sessions, directory, nil, nil, now, nil)
}

// NewCalendarServiceWithLogger wires dependencies with explicit slot tables
// for the day and weekly grids. Nil tables select the default grid.
func NewCalendarServiceWithLogger(sessions SessionRepository, directory DirectorySource, day, week *calendar.SlotTable, now func() time.Time, logger *slog.Logger) *CalendarService {
	if day == nil {
		day = calendar.MustSlotTable(calendar.DefaultConfig())
	}
	if week == nil {
		week = calendar.MustSlotTable(calendar.DefaultConfig())
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		sessions:  sessions,
		directory: directory,
		day:       day,
		week:      week,
		clock:     calendar.ClockFunc(now),
		logger:    defaultLogger(logger),
	}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// DayCalendar lays out every room's sessions for one date.
func (s *CalendarService) DayCalendar(ctx context.Context, params DayCalendarParams) (layout calendar.DayLayout, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	logger := s.loggerWith(ctx, "DayCalendar", "date", params.Date.String())
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render day calendar", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("columns", len(layout.Columns)).DebugContext(ctx, "day calendar rendered")
	}()

	if !params.Date.IsValid() {
		vErr := &ValidationError{}
		vErr.add("date", "date is invalid")
		err = vErr
		return
	}

	filter := SessionFilter{From: &params.Date, To: &params.Date}
	if !params.IncludeCancelled {
		filter.Statuses = activeStatuses()
	}

	dir, sessions, err := s.load(ctx, filter)
	if err != nil {
		return
	}

	layout = s.day.LayoutDay(params.Date, dir, sessions, s.clock)
	return
}

// WeekSchedule lays out one teacher's or one class's sessions for the
// Monday-to-Sunday week containing the requested date.
func (s *CalendarService) WeekSchedule(ctx context.Context, params WeekScheduleParams) (layout calendar.WeekLayout, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	teacherID := strings.TrimSpace(params.TeacherID)
	classID := strings.TrimSpace(params.ClassID)

	logger := s.loggerWith(ctx, "WeekSchedule",
		"date", params.Date.String(),
		"teacher_id", teacherID,
		"class_id", classID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render weekly schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("start", layout.Start.String()).DebugContext(ctx, "weekly schedule rendered")
	}()

	vErr := &ValidationError{}
	if !params.Date.IsValid() {
		vErr.add("date", "date is invalid")
	}
	switch {
	case teacherID == "" && classID == "":
		vErr.add("teacher_id", "teacher or class is required")
	case teacherID != "" && classID != "":
		vErr.add("teacher_id", "specify either teacher or class")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	start := calendar.WeekStart(params.Date)
	end := start.AddDays(6)
	filter := SessionFilter{TeacherID: teacherID, ClassID: classID, From: &start, To: &end}
	if !params.IncludeCancelled {
		filter.Statuses = activeStatuses()
	}

	dir, sessions, err := s.load(ctx, filter)
	if err != nil {
		return
	}

	layout = s.week.LayoutWeek(start, dir, sessions, s.clock)
	return
}

func (s *CalendarService) load(ctx context.Context, filter SessionFilter) (calendar.Directory, []scheduler.Session, error) {
	var dir calendar.Directory
	if s.directory != nil {
		var err error
		if dir, err = s.directory.Directory(ctx); err != nil {
			return calendar.Directory{}, nil, err
		}
	}
	if s.sessions == nil {
		return dir, nil, nil
	}
	sessions, err := s.sessions.ListSessions(ctx, filter)
	if err != nil {
		return calendar.Directory{}, nil, mapSessionRepoError(err)
	}
	return dir, sessions, nil
}
