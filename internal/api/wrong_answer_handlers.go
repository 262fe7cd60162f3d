package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/wordflash/internal/errors"
)

func (s *Server) handleWrongAnswers(w http.ResponseWriter, r *http.Request) {
	queue, err := s.WrongAnswers.GetQueue(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

func (s *Server) handleNextWrongAnswer(w http.ResponseWriter, r *http.Request) {
	entry, err := s.WrongAnswers.Next(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type reviewWrongAnswerRequest struct {
	Correct *bool `json:"correct"`
}

func (s *Server) handleReviewWrongAnswer(w http.ResponseWriter, r *http.Request) {
	var req reviewWrongAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Correct == nil {
		handleError(w, r, errors.NewValidationError("correct", "is required"))
		return
	}

	err := s.WrongAnswers.Review(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "wordID"), *req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
