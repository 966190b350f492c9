// internal/httpserver/routes_daily.go
//
// HTTP routes for the word-of-the-day mode, under /daily:
//   - GET  /daily     → today's date key (UTC, from the session clock)
//   - POST /daily/new → start a round with today's word
//
// The word is derived from date, language, category and salt inside the
// session, so every player of one language gets the same word on the same day.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", s.handleDailyNew)
	})
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"date":     s.session.Today(),
		"language": s.session.Language(),
		"category": s.session.Category(),
	})
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}

	info, err := s.session.StartDailyRound(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
