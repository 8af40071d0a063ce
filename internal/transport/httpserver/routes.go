package httpserver

import (
	"net/http"
	"time"

	"schedule-arranger-go/internal/config"
	"schedule-arranger-go/internal/transport/httpserver/handler"
	authmw "schedule-arranger-go/internal/transport/httpserver/middleware"
	"schedule-arranger-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewIdentityAuth(cfg.Auth, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/schedules", handlers.ListMySchedules)
			r.Post("/schedules", handlers.CreateSchedule)
			r.Get("/schedules/{scheduleID}", handlers.GetScheduleView)
			r.Get("/schedules/{scheduleID}/edit", handlers.GetScheduleEdit)
			r.Post("/schedules/{scheduleID}", handlers.MutateSchedule)
			r.Post("/schedules/{scheduleID}/candidates/{candidateID}/availability", handlers.SetAvailability)
			r.Post("/schedules/{scheduleID}/comments", handlers.SaveComment)
		})
	})

	return r
}
