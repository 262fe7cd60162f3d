package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/planner"
)

func parseDay(raw string) (clock.Day, error) {
	if raw == "" {
		return "", nil
	}
	day, err := clock.ParseDay(raw)
	if err != nil {
		return "", errors.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return day, nil
}

func (s *Server) handleDailyTask(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.Tasks.GetDailyTask(r.Context(), userFromContext(r.Context()), day)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type startSessionRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	day, err := parseDay(req.Date)
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Practice.StartSession(r.Context(), userFromContext(r.Context()), day)
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Answers stay on the server until the client submits.
	out := *session
	out.Questions = planner.Redact(session.Questions)
	writeJSON(w, http.StatusCreated, out)
}

type submitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.QuestionID == "" {
		handleError(w, r, errors.NewValidationError("question_id", "is required"))
		return
	}

	feedback, err := s.Practice.SubmitAnswer(r.Context(), userFromContext(r.Context()), req.QuestionID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

type completeSessionRequest struct {
	Answers []models.SessionAnswer `json:"answers"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req completeSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	log.Debug("completing session %s with %d answers", sessionID, len(req.Answers))
	result, err := s.Practice.CompleteSession(r.Context(), userFromContext(r.Context()), models.SessionAnswers{
		SessionID: sessionID,
		Answers:   req.Answers,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
