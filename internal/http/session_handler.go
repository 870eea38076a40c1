package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

type sessionService interface {
	CheckConflicts(ctx context.Context, params application.CheckConflictsParams) (application.ConflictReport, error)
	CreateSession(ctx context.Context, input application.SessionInput) (application.SessionResult, error)
	UpdateSession(ctx context.Context, id string, input application.SessionInput) (application.SessionResult, error)
	CancelSession(ctx context.Context, id string) (scheduler.Session, error)
	DeleteSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (scheduler.Session, error)
	PreviewRecurring(ctx context.Context, input application.RecurringInput) (application.RecurringPlan, error)
	CreateRecurring(ctx context.Context, input application.RecurringInput) (application.RecurringPlan, error)
	ListSessions(ctx context.Context, params application.ListSessionsParams) (application.SessionPage, error)
}

// SessionHandler serves the session and recurrence endpoints.
type SessionHandler struct {
	service   sessionService
	decoder   *requestDecoder
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: service, decoder: mustRequestDecoder(), responder: newResponder(logger), logger: logger}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req sessionRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	result, err := h.service.CreateSession(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderResult(r.Context(), w, result, http.StatusCreated)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	session, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	var req sessionRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	result, err := h.service.UpdateSession(r.Context(), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderResult(r.Context(), w, result, http.StatusOK)
}

func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	session, err := h.service.CancelSession(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	if err := h.service.DeleteSession(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SessionHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req conflictCheckRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	report, err := h.service.CheckConflicts(r.Context(), application.CheckConflictsParams{
		SessionID: strings.TrimSpace(req.SessionID),
		Input:     req.sessionRequest.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	conflicts := toConflictDTOs(report.Conflicts)
	if conflicts == nil {
		conflicts = []conflictDTO{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictReportResponse{
		RoomConflict: report.RoomConflict,
		Conflicts:    conflicts,
	})
}

func (h *SessionHandler) PreviewRecurring(w http.ResponseWriter, r *http.Request) {
	h.recurring(w, r, false)
}

func (h *SessionHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	h.recurring(w, r, true)
}

func (h *SessionHandler) recurring(w http.ResponseWriter, r *http.Request, persist bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req recurringRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	status := http.StatusOK
	run := h.service.PreviewRecurring
	if persist {
		status = http.StatusCreated
		run = h.service.CreateRecurring
	}

	plan, err := run(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "SessionHandler", "recurring",
		"persist", persist,
		"occurrences", len(plan.Occurrences),
	).DebugContext(r.Context(), "recurring pattern processed")

	h.responder.writeJSON(r.Context(), w, status, toRecurringPlanResponse(plan))
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := buildListParams(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	page, err := h.service.ListSessions(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionPageResponse{
		Sessions: toSessionDTOs(page.Sessions),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	})
}

func (h *SessionHandler) renderResult(ctx context.Context, w http.ResponseWriter, result application.SessionResult, status int) {
	h.responder.writeJSON(ctx, w, status, sessionResponse{
		Session:  toSessionDTO(result.Session),
		Warnings: toConflictDTOs(result.Warnings),
	})
}

type sessionRequest struct {
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	RoomID        string `json:"room_id" validate:"required"`
	TeacherID     string `json:"teacher_id" validate:"required"`
	ClassID       string `json:"class_id" validate:"required"`
	Status        string `json:"status"`
	IsMakeupClass bool   `json:"is_makeup_class"`
}

func (r sessionRequest) toInput() application.SessionInput {
	return application.SessionInput{
		Date:          strings.TrimSpace(r.Date),
		StartTime:     strings.TrimSpace(r.StartTime),
		EndTime:       strings.TrimSpace(r.EndTime),
		RoomID:        strings.TrimSpace(r.RoomID),
		TeacherID:     strings.TrimSpace(r.TeacherID),
		ClassID:       strings.TrimSpace(r.ClassID),
		Status:        strings.TrimSpace(r.Status),
		IsMakeupClass: r.IsMakeupClass,
	}
}

type conflictCheckRequest struct {
	SessionID string `json:"session_id"`
	sessionRequest
}

type recurringRequest struct {
	Weekdays      []int  `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	RoomID        string `json:"room_id" validate:"required"`
	TeacherID     string `json:"teacher_id" validate:"required"`
	ClassID       string `json:"class_id" validate:"required"`
	IsMakeupClass bool   `json:"is_makeup_class"`
}

func (r recurringRequest) toInput() application.RecurringInput {
	return application.RecurringInput{
		Weekdays:      append([]int(nil), r.Weekdays...),
		StartDate:     strings.TrimSpace(r.StartDate),
		EndDate:       strings.TrimSpace(r.EndDate),
		StartTime:     strings.TrimSpace(r.StartTime),
		EndTime:       strings.TrimSpace(r.EndTime),
		RoomID:        strings.TrimSpace(r.RoomID),
		TeacherID:     strings.TrimSpace(r.TeacherID),
		ClassID:       strings.TrimSpace(r.ClassID),
		IsMakeupClass: r.IsMakeupClass,
	}
}

func buildListParams(values url.Values) (application.ListSessionsParams, error) {
	params := application.ListSessionsParams{
		RoomID:           queryValue(values, "room_id"),
		TeacherID:        queryValue(values, "teacher_id"),
		ClassID:          queryValue(values, "class_id"),
		IncludeCancelled: parseBool(queryValue(values, "include_cancelled")),
	}

	var err error
	if params.From, err = parseOptionalDate(queryValue(values, "from")); err != nil {
		return application.ListSessionsParams{}, err
	}
	if params.To, err = parseOptionalDate(queryValue(values, "to")); err != nil {
		return application.ListSessionsParams{}, err
	}

	page := queryValue(values, "page")
	if page == "" {
		page = queryValue(values, "current_page")
	}
	if params.Page, err = parseOptionalInt(page); err != nil {
		return application.ListSessionsParams{}, errInvalidPaging
	}
	if params.PageSize, err = parseOptionalInt(queryValue(values, "page_size")); err != nil {
		return application.ListSessionsParams{}, errInvalidPaging
	}
	return params, nil
}

func parseOptionalDate(value string) (*civil.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil || !d.IsValid() {
		return nil, errInvalidDate
	}
	return &d, nil
}

func parseOptionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func parseBool(value string) bool {
	b, _ := strconv.ParseBool(value)
	return b
}
