package http

import (
	"context"
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/calendar"
)

type calendarService interface {
	DayCalendar(ctx context.Context, params application.DayCalendarParams) (calendar.DayLayout, error)
	WeekSchedule(ctx context.Context, params application.WeekScheduleParams) (calendar.WeekLayout, error)
}

// CalendarHandler serves the rendered day and weekly grids.
type CalendarHandler struct {
	service   calendarService
	responder responder
	now       func() civil.Date
}

// NewCalendarHandler builds a handler. Requests without a date use today
// according to now.
func NewCalendarHandler(service calendarService, now func() civil.Date, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger), now: now}
}

func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	date, ok := h.requestedDate(queryValue(values, "date"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	layout, err := h.service.DayCalendar(r.Context(), application.DayCalendarParams{
		Date:             date,
		IncludeCancelled: parseBool(queryValue(values, "include_cancelled")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dayCalendarResponse{
		Date:    layout.Date.String(),
		Slots:   toSlotDTOs(layout.Slots),
		Columns: toColumnDTOs(layout.Columns),
	})
}

func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	date, ok := h.requestedDate(queryValue(values, "date"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	layout, err := h.service.WeekSchedule(r.Context(), application.WeekScheduleParams{
		Date:             date,
		TeacherID:        queryValue(values, "teacher_id"),
		ClassID:          queryValue(values, "class_id"),
		IncludeCancelled: parseBool(queryValue(values, "include_cancelled")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, weekScheduleResponse{
		Start:   layout.Start.String(),
		Slots:   toSlotDTOs(layout.Slots),
		Columns: toColumnDTOs(layout.Columns),
	})
}

func (h *CalendarHandler) requestedDate(value string) (civil.Date, bool) {
	if value == "" {
		if h.now == nil {
			return civil.Date{}, false
		}
		return h.now(), true
	}
	d, err := civil.ParseDate(value)
	if err != nil || !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}
