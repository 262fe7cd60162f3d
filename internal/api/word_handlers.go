package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/wordflash/internal/models"
)

type registerUserRequest struct {
	Timezone string `json:"timezone"`
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Vocabulary.RegisterUser(r.Context(), userFromContext(r.Context()), req.Timezone)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type addWordRequest struct {
	WordID      string `json:"word_id"`
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Example     string `json:"example"`
	AudioURL    string `json:"audio_url"`
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	rec, err := s.Vocabulary.AddWord(r.Context(), models.Word{
		UserID:      userFromContext(r.Context()),
		WordID:      req.WordID,
		Term:        req.Term,
		Translation: req.Translation,
		Example:     req.Example,
		AudioURL:    req.AudioURL,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	if err := s.Vocabulary.DeleteWord(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "wordID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
