package api

import "net/http"

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.Scheduler.GetReviewSchedule(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Progress.GetProgressStats(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
