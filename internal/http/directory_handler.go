package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/learning-center-scheduler/internal/application"
)

type directoryService interface {
	CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error)
	ListRooms(ctx context.Context) ([]application.Room, error)
	CreateTeacher(ctx context.Context, input application.NamedInput) (application.Teacher, error)
	ListTeachers(ctx context.Context) ([]application.Teacher, error)
	CreateClass(ctx context.Context, input application.NamedInput) (application.Class, error)
	ListClasses(ctx context.Context) ([]application.Class, error)
}

// DirectoryHandler serves the room, teacher and class catalogs.
type DirectoryHandler struct {
	service   directoryService
	decoder   *requestDecoder
	responder responder
}

func NewDirectoryHandler(service directoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{service: service, decoder: mustRequestDecoder(), responder: newResponder(logger)}
}

func (h *DirectoryHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req roomRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), application.RoomInput{Name: req.Name, Capacity: req.Capacity})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRoomDTO(room))
}

func (h *DirectoryHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *DirectoryHandler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req namedRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	teacher, err := h.service.CreateTeacher(r.Context(), application.NamedInput{Name: req.Name})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toNamedDTO(teacher.ID, teacher.Name, teacher.CreatedAt, teacher.UpdatedAt))
}

func (h *DirectoryHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	out := make([]namedDTO, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, toNamedDTO(t.ID, t.Name, t.CreatedAt, t.UpdatedAt))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *DirectoryHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req namedRequest
	if err := h.decoder.decodeJSON(w, r, &req); err != nil {
		h.responder.writeRequestError(r.Context(), w, err)
		return
	}

	class, err := h.service.CreateClass(r.Context(), application.NamedInput{Name: req.Name})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toNamedDTO(class.ID, class.Name, class.CreatedAt, class.UpdatedAt))
}

func (h *DirectoryHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classes, err := h.service.ListClasses(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	out := make([]namedDTO, 0, len(classes))
	for _, c := range classes {
		out = append(out, toNamedDTO(c.ID, c.Name, c.CreatedAt, c.UpdatedAt))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

type roomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

type namedRequest struct {
	Name string `json:"name" validate:"required"`
}
