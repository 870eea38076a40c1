package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/persistence"
	"github.com/example/learning-center-scheduler/internal/recurrence"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

const (
	defaultPageSize          = 50
	maxPageSize              = 200
	defaultMaxRecurrenceDays = 366
)

// SessionRepository captures the persistence interactions needed by the service.
type SessionRepository interface {
	CreateSessions(ctx context.Context, sessions []scheduler.Session) error
	UpdateSession(ctx context.Context, session scheduler.Session) error
	GetSession(ctx context.Context, id string) (scheduler.Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, filter SessionFilter) ([]scheduler.Session, error)
	CountSessions(ctx context.Context, filter SessionFilter) (int, error)
}

// ResourceCatalog exposes existence checks for the records a session references.
type ResourceCatalog interface {
	RoomExists(ctx context.Context, id string) (bool, error)
	TeacherExists(ctx context.Context, id string) (bool, error)
	ClassExists(ctx context.Context, id string) (bool, error)
}

// SessionService validates, conflict-checks and persists sessions.
type SessionService struct {
	sessions          SessionRepository
	catalog           ResourceCatalog
	engine            *recurrence.Engine
	idGenerator       func() string
	now               func() time.Time
	maxRecurrenceDays int
	logger            *slog.Logger
}

// NewSessionService wires dependencies for session operations.
func NewSessionService(sessions SessionRepository, catalog ResourceCatalog, idGenerator func() string, now func() time.Time) *SessionService {
	return NewSessionServiceWithLogger(sessions, catalog, idGenerator, now, 0, nil)
}

// NewSessionServiceWithLogger wires dependencies with an explicit recurrence
// span limit and logger. A non-positive limit selects the default of 366 days.
func NewSessionServiceWithLogger(sessions SessionRepository, catalog ResourceCatalog, idGenerator func() string, now func() time.Time, maxRecurrenceDays int, logger *slog.Logger) *SessionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if maxRecurrenceDays <= 0 {
		maxRecurrenceDays = defaultMaxRecurrenceDays
	}
	return &SessionService{
		sessions:          sessions,
		catalog:           catalog,
		engine:            recurrence.NewEngine(),
		idGenerator:       idGenerator,
		now:               now,
		maxRecurrenceDays: maxRecurrenceDays,
		logger:            defaultLogger(logger),
	}
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// CheckConflicts classifies every stored session overlapping the candidate.
// Nothing is persisted.
func (s *SessionService) CheckConflicts(ctx context.Context, params CheckConflictsParams) (ConflictReport, error) {
	if s == nil {
		return ConflictReport{}, fmt.Errorf("SessionService is nil")
	}

	candidate, vErr := parseSessionInput(params.Input)
	if vErr.HasErrors() {
		return ConflictReport{}, vErr
	}
	candidate.ID = params.SessionID

	conflicts, err := s.conflictsFor(ctx, candidate)
	if err != nil {
		return ConflictReport{}, err
	}
	return ConflictReport{Conflicts: conflicts, RoomConflict: scheduler.HasRoomConflict(conflicts)}, nil
}

// CreateSession validates input and persists a new session. Room conflicts
// fail with a *ConflictError; teacher conflicts are returned as warnings.
func (s *SessionService) CreateSession(ctx context.Context, input SessionInput) (result SessionResult, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateSession",
		"room_id", input.RoomID,
		"date", input.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", result.Session.ID, "warnings", len(result.Warnings)).InfoContext(ctx, "session created")
	}()

	candidate, vErr := parseSessionInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.ensureResourcesExist(ctx, candidate); err != nil {
		return
	}

	var warnings []scheduler.Conflict
	warnings, err = s.admit(ctx, candidate)
	if err != nil {
		return
	}

	candidate.ID = s.idGenerator()
	if s.sessions != nil {
		if err = s.sessions.CreateSessions(ctx, []scheduler.Session{candidate}); err != nil {
			err = mapSessionRepoError(err)
			return
		}
	}

	result = SessionResult{Session: candidate, Warnings: warnings}
	return
}

// UpdateSession replaces the fields of an existing session. The session is
// never reported as conflicting with its own previous version.
func (s *SessionService) UpdateSession(ctx context.Context, id string, input SessionInput) (result SessionResult, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSession", "session_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("warnings", len(result.Warnings)).InfoContext(ctx, "session updated")
	}()

	if _, err = s.sessions.GetSession(ctx, id); err != nil {
		err = mapSessionRepoError(err)
		return
	}

	candidate, vErr := parseSessionInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	candidate.ID = id
	if err = s.ensureResourcesExist(ctx, candidate); err != nil {
		return
	}

	var warnings []scheduler.Conflict
	warnings, err = s.admit(ctx, candidate)
	if err != nil {
		return
	}

	if err = s.sessions.UpdateSession(ctx, candidate); err != nil {
		err = mapSessionRepoError(err)
		return
	}

	result = SessionResult{Session: candidate, Warnings: warnings}
	return
}

// CancelSession marks a session as cancelled. Cancelling twice is a no-op.
func (s *SessionService) CancelSession(ctx context.Context, id string) (session scheduler.Session, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CancelSession", "session_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session cancelled")
	}()

	session, err = s.sessions.GetSession(ctx, id)
	if err != nil {
		err = mapSessionRepoError(err)
		return
	}
	if session.Status == scheduler.StatusCancelled {
		return
	}

	session.Status = scheduler.StatusCancelled
	if err = s.sessions.UpdateSession(ctx, session); err != nil {
		err = mapSessionRepoError(err)
	}
	return
}

// DeleteSession removes a session permanently.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("SessionService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteSession", "session_id", id)
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		err = mapSessionRepoError(err)
		logger.ErrorContext(ctx, "failed to delete session", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "session deleted")
	return nil
}

// GetSession returns a stored session by ID.
func (s *SessionService) GetSession(ctx context.Context, id string) (scheduler.Session, error) {
	if s == nil {
		return scheduler.Session{}, fmt.Errorf("SessionService is nil")
	}
	if s.sessions == nil {
		return scheduler.Session{}, ErrNotFound
	}
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return scheduler.Session{}, mapSessionRepoError(err)
	}
	return session, nil
}

// PreviewRecurring expands the pattern and checks every occurrence against
// stored sessions without persisting anything.
func (s *SessionService) PreviewRecurring(ctx context.Context, input RecurringInput) (RecurringPlan, error) {
	if s == nil {
		return RecurringPlan{}, fmt.Errorf("SessionService is nil")
	}

	plan, err := s.plan(ctx, input)
	if err != nil {
		s.loggerWith(ctx, "PreviewRecurring").WarnContext(ctx, "recurring preview rejected", "error", err, "error_kind", ErrorKind(err))
		return RecurringPlan{}, err
	}
	return plan, nil
}

// CreateRecurring persists every occurrence of the pattern or none of them.
// Any room conflict aborts the whole batch with a *ConflictError.
func (s *SessionService) CreateRecurring(ctx context.Context, input RecurringInput) (plan RecurringPlan, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRecurring",
		"room_id", input.RoomID,
		"start_date", input.StartDate,
		"end_date", input.EndDate,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create recurring sessions", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("sessions", len(plan.Occurrences), "teacher_conflicts", plan.TeacherConflicts).InfoContext(ctx, "recurring sessions created")
	}()

	plan, err = s.plan(ctx, input)
	if err != nil {
		return
	}
	if plan.RoomConflicts > 0 {
		blocking := make([]scheduler.Conflict, 0, plan.RoomConflicts)
		for _, o := range plan.Occurrences {
			blocking = append(blocking, filterConflicts(o.Conflicts, scheduler.ConflictTypeRoom)...)
		}
		err = &ConflictError{Conflicts: blocking}
		plan = RecurringPlan{}
		return
	}
	if len(plan.Occurrences) == 0 {
		return
	}

	for i := range plan.Occurrences {
		plan.Occurrences[i].Session.ID = s.idGenerator()
	}
	if s.sessions != nil {
		if err = s.sessions.CreateSessions(ctx, plan.Sessions()); err != nil {
			err = mapSessionRepoError(err)
			plan = RecurringPlan{}
			return
		}
	}
	return
}

// ListSessions returns one page of sessions ordered by date, start and ID.
// Cancelled sessions are omitted unless requested.
func (s *SessionService) ListSessions(ctx context.Context, params ListSessionsParams) (SessionPage, error) {
	if s == nil {
		return SessionPage{}, fmt.Errorf("SessionService is nil")
	}

	vErr := &ValidationError{}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		vErr.add("to", scheduler.MsgDateRangeInvalid)
	}
	if params.Page < 0 {
		vErr.add("page", "page must be positive")
	}
	if params.PageSize < 0 || params.PageSize > maxPageSize {
		vErr.add("page_size", fmt.Sprintf("page size must be between 1 and %d", maxPageSize))
	}
	if vErr.HasErrors() {
		return SessionPage{}, vErr
	}

	page, size := params.Page, params.PageSize
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = defaultPageSize
	}
	if s.sessions == nil {
		return SessionPage{Sessions: []scheduler.Session{}, Page: page, PageSize: size}, nil
	}

	filter := SessionFilter{
		RoomID:    strings.TrimSpace(params.RoomID),
		TeacherID: strings.TrimSpace(params.TeacherID),
		ClassID:   strings.TrimSpace(params.ClassID),
		From:      params.From,
		To:        params.To,
	}
	if !params.IncludeCancelled {
		filter.Statuses = activeStatuses()
	}

	total, err := s.sessions.CountSessions(ctx, filter)
	if err != nil {
		return SessionPage{}, mapSessionRepoError(err)
	}
	filter.Limit = size
	filter.Offset = (page - 1) * size
	sessions, err := s.sessions.ListSessions(ctx, filter)
	if err != nil {
		return SessionPage{}, mapSessionRepoError(err)
	}
	if sessions == nil {
		sessions = []scheduler.Session{}
	}

	return SessionPage{Sessions: sessions, Page: page, PageSize: size, Total: total}, nil
}

// plan validates and expands a recurring input, then classifies conflicts
// for each occurrence against one query over the whole range.
func (s *SessionService) plan(ctx context.Context, input RecurringInput) (RecurringPlan, error) {
	pattern, vErr := parseRecurringInput(input)
	if !vErr.HasErrors() && !pattern.EndDate.Before(pattern.StartDate) && recurrence.SpanDays(pattern) > s.maxRecurrenceDays {
		vErr.add("end_date", fmt.Sprintf("recurrence range must not exceed %d days", s.maxRecurrenceDays))
	}
	if vErr.HasErrors() {
		return RecurringPlan{}, vErr
	}

	expanded, err := s.engine.Expand(pattern)
	if err != nil {
		vErr := &ValidationError{}
		if vErr.absorb(err) {
			return RecurringPlan{}, vErr
		}
		return RecurringPlan{}, err
	}
	if err := s.ensureResourcesExist(ctx, scheduler.Session{RoomID: pattern.RoomID, TeacherID: pattern.TeacherID, ClassID: pattern.ClassID}); err != nil {
		return RecurringPlan{}, err
	}

	existing, err := s.activeSessions(ctx, pattern.StartDate, pattern.EndDate)
	if err != nil {
		return RecurringPlan{}, err
	}

	plan := RecurringPlan{
		Weekdays:    recurrence.SortedWeekdays(pattern.Weekdays),
		Occurrences: make([]Occurrence, 0, len(expanded)),
	}
	for _, candidate := range expanded {
		conflicts, err := scheduler.ClassifyConflicts(candidate, existing)
		if err != nil {
			return RecurringPlan{}, err
		}
		for _, c := range conflicts {
			if c.Type == scheduler.ConflictTypeRoom {
				plan.RoomConflicts++
			} else {
				plan.TeacherConflicts++
			}
		}
		plan.Occurrences = append(plan.Occurrences, Occurrence{Session: candidate, Conflicts: conflicts})
	}
	return plan, nil
}

// admit rejects room conflicts and returns teacher conflicts as warnings.
// Cancelled candidates never conflict.
func (s *SessionService) admit(ctx context.Context, candidate scheduler.Session) ([]scheduler.Conflict, error) {
	if candidate.Status == scheduler.StatusCancelled {
		return []scheduler.Conflict{}, nil
	}
	conflicts, err := s.conflictsFor(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if rooms := filterConflicts(conflicts, scheduler.ConflictTypeRoom); len(rooms) > 0 {
		return nil, &ConflictError{Conflicts: rooms}
	}
	return filterConflicts(conflicts, scheduler.ConflictTypeTeacher), nil
}

func (s *SessionService) conflictsFor(ctx context.Context, candidate scheduler.Session) ([]scheduler.Conflict, error) {
	existing, err := s.activeSessions(ctx, candidate.Date, candidate.Date)
	if err != nil {
		return nil, err
	}
	conflicts, err := scheduler.ClassifyConflicts(candidate, existing)
	if err != nil {
		vErr := &ValidationError{}
		if vErr.absorb(err) {
			return nil, vErr
		}
		return nil, err
	}
	return conflicts, nil
}

func (s *SessionService) activeSessions(ctx context.Context, from, to civil.Date) ([]scheduler.Session, error) {
	if s.sessions == nil {
		return nil, nil
	}
	existing, err := s.sessions.ListSessions(ctx, SessionFilter{From: &from, To: &to, Statuses: activeStatuses()})
	if err != nil {
		return nil, mapSessionRepoError(err)
	}
	return existing, nil
}

func (s *SessionService) ensureResourcesExist(ctx context.Context, session scheduler.Session) error {
	if s.catalog == nil {
		return nil
	}

	checks := []struct {
		field   string
		id      string
		message string
		exists  func(context.Context, string) (bool, error)
	}{
		{"room_id", session.RoomID, "room does not exist", s.catalog.RoomExists},
		{"teacher_id", session.TeacherID, "teacher does not exist", s.catalog.TeacherExists},
		{"class_id", session.ClassID, "class does not exist", s.catalog.ClassExists},
	}

	vErr := &ValidationError{}
	for _, check := range checks {
		ok, err := check.exists(ctx, check.id)
		if err != nil {
			return err
		}
		if !ok {
			vErr.add(check.field, check.message)
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func parseSessionInput(input SessionInput) (scheduler.Session, *ValidationError) {
	vErr := &ValidationError{}
	session := scheduler.Session{
		RoomID:        strings.TrimSpace(input.RoomID),
		TeacherID:     strings.TrimSpace(input.TeacherID),
		ClassID:       strings.TrimSpace(input.ClassID),
		Status:        scheduler.StatusScheduled,
		IsMakeupClass: input.IsMakeupClass,
	}

	session.Date = parseDateField(vErr, "date", input.Date)
	start, startOK := parseTimeField(vErr, "start_time", input.StartTime)
	end, endOK := parseTimeField(vErr, "end_time", input.EndTime)
	if startOK && endOK {
		vErr.absorb(scheduler.Interval{Start: start, End: end}.Validate())
	}
	session.Start, session.End = start, end

	requireIDs(vErr, session.RoomID, session.TeacherID, session.ClassID)

	if status := strings.ToUpper(strings.TrimSpace(input.Status)); status != "" {
		session.Status = scheduler.Status(status)
		if !session.Status.Stored() {
			vErr.add("status", "status is invalid")
		}
	}
	return session, vErr
}

func parseRecurringInput(input RecurringInput) (recurrence.Pattern, *ValidationError) {
	vErr := &ValidationError{}
	pattern := recurrence.Pattern{
		RoomID:        strings.TrimSpace(input.RoomID),
		TeacherID:     strings.TrimSpace(input.TeacherID),
		ClassID:       strings.TrimSpace(input.ClassID),
		IsMakeupClass: input.IsMakeupClass,
	}

	pattern.Weekdays = make([]time.Weekday, 0, len(input.Weekdays))
	for _, d := range input.Weekdays {
		pattern.Weekdays = append(pattern.Weekdays, time.Weekday(d))
	}
	pattern.StartDate = parseDateField(vErr, "start_date", input.StartDate)
	pattern.EndDate = parseDateField(vErr, "end_date", input.EndDate)
	pattern.Start, _ = parseTimeField(vErr, "start_time", input.StartTime)
	pattern.End, _ = parseTimeField(vErr, "end_time", input.EndTime)
	requireIDs(vErr, pattern.RoomID, pattern.TeacherID, pattern.ClassID)

	return pattern, vErr
}

func parseDateField(vErr *ValidationError, field, value string) civil.Date {
	value = strings.TrimSpace(value)
	if value == "" {
		vErr.add(field, "date is required")
		return civil.Date{}
	}
	date, err := civil.ParseDate(value)
	if err != nil || !date.IsValid() {
		vErr.add(field, "date is invalid")
		return civil.Date{}
	}
	return date
}

func parseTimeField(vErr *ValidationError, field, value string) (scheduler.TimeOfDay, bool) {
	if strings.TrimSpace(value) == "" {
		vErr.add(field, "time is required")
		return 0, false
	}
	t, err := scheduler.ParseTimeOfDay(field, value)
	if err != nil {
		vErr.absorb(err)
		return 0, false
	}
	return t, true
}

func requireIDs(vErr *ValidationError, roomID, teacherID, classID string) {
	if roomID == "" {
		vErr.add("room_id", "room is required")
	}
	if teacherID == "" {
		vErr.add("teacher_id", "teacher is required")
	}
	if classID == "" {
		vErr.add("class_id", "class is required")
	}
}

func activeStatuses() []scheduler.Status {
	return []scheduler.Status{scheduler.StatusScheduled, scheduler.StatusConfirmed}
}

func filterConflicts(conflicts []scheduler.Conflict, kind scheduler.ConflictType) []scheduler.Conflict {
	out := make([]scheduler.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Type == kind {
			out = append(out, c)
		}
	}
	return out
}

func mapSessionRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, persistence.ErrOverlap):
		return &ConflictError{}
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("session", "related records are missing")
		return vErr
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("session", "session is invalid")
		return vErr
	}
	return err
}
