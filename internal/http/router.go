package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	Calendar   *CalendarHandler
	Sessions   *SessionHandler
	Directory  *DirectoryHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := chi.NewRouter()
	for _, mw := range cfg.Middleware {
		if mw != nil {
			mux.Use(mw)
		}
	}

	if cfg.Calendar != nil {
		mux.Route("/calendar", func(r chi.Router) {
			r.Get("/day", cfg.Calendar.Day)
			r.Get("/week", cfg.Calendar.Week)
		})
	}

	if cfg.Sessions != nil {
		mux.Route("/sessions", func(r chi.Router) {
			r.Get("/", cfg.Sessions.List)
			r.Post("/", cfg.Sessions.Create)
			r.Post("/conflicts", cfg.Sessions.CheckConflicts)
			r.Route("/recurring", func(r chi.Router) {
				r.Post("/", cfg.Sessions.CreateRecurring)
				r.Post("/preview", cfg.Sessions.PreviewRecurring)
			})
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Sessions.Get)
				r.Put("/", cfg.Sessions.Update)
				r.Delete("/", cfg.Sessions.Delete)
				r.Post("/cancel", cfg.Sessions.Cancel)
			})
		})
	}

	if cfg.Directory != nil {
		mux.Route("/rooms", func(r chi.Router) {
			r.Get("/", cfg.Directory.ListRooms)
			r.Post("/", cfg.Directory.CreateRoom)
		})
		mux.Route("/teachers", func(r chi.Router) {
			r.Get("/", cfg.Directory.ListTeachers)
			r.Post("/", cfg.Directory.CreateTeacher)
		})
		mux.Route("/classes", func(r chi.Router) {
			r.Get("/", cfg.Directory.ListClasses)
			r.Post("/", cfg.Directory.CreateClass)
		})
	}

	return mux
}
