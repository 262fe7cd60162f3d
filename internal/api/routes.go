package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/wordflash/internal/metrics"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)
		r.Use(s.rateLimitMiddleware)

		r.Post("/users", s.handleRegisterUser)
		r.Post("/words", s.handleAddWord)
		r.Delete("/words/{wordID}", s.handleDeleteWord)

		r.Get("/tasks/daily", s.handleDailyTask)
		r.Post("/sessions", s.handleStartSession)
		r.Post("/answers", s.handleSubmitAnswer)
		r.Post("/sessions/{sessionID}/complete", s.handleCompleteSession)

		r.Get("/wrong-answers", s.handleWrongAnswers)
		r.Get("/wrong-answers/next", s.handleNextWrongAnswer)
		r.Post("/wrong-answers/{wordID}/review", s.handleReviewWrongAnswer)

		r.Get("/schedule", s.handleSchedule)
		r.Get("/progress", s.handleProgress)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute(r))
	})
	return r
}
