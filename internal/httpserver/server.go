// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/alphabet", "/categories".
//   - Game endpoints: /game (view), /game/new, /game/guess, /game/hint, /game/giveup.
//   - Daily word endpoints: mounted under /daily.
//   - Progress endpoints: /stats, /achievements, /hints/buy, /stats/reset.
//
// Notes:
//   - Every game error is a recoverable condition and maps to a 4xx/503 with a
//     short JSON error code; nothing here is fatal.
//   - Responses that change the round carry the events produced, so the
//     browser can play the matching sound cue.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/ledger"
)

// Source is the readiness view of the word source.
type Source interface {
	Ready() bool
}

// Options tunes transport concerns.
type Options struct {
	ClientOrigin   string        // allowed CORS origin; default http://localhost:5173
	RequestTimeout time.Duration // per-request budget; default 10s
}

// Server bundles router, session, and ledger.
type Server struct {
	r       *chi.Mux
	session *game.Session
	ledger  *ledger.Ledger
	src     Source
}

// New constructs a Server, installs middleware, and registers routes.
func New(session *game.Session, led *ledger.Ledger, src Source, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), session: session, ledger: led, src: src}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","/game","POST /game/new","POST /game/guess","POST /game/hint","POST /game/giveup","/categories","/stats","/achievements"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "wordsReady": s.src.Ready()})
	})
	s.r.Get("/alphabet", s.handleAlphabet)
	s.r.Get("/categories", s.handleCategories)

	s.r.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleInfo)
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Post("/giveup", s.handleGiveUp)
	})
	s.mountDaily(s.r)
	s.mountProgress(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new. Every field is optional.
// A present category (even "") replaces the session's category.
type newGameReq struct {
	Language string  `json:"language"`
	Category *string `json:"category"`
	Daily    bool    `json:"daily"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	if req.Category != nil {
		s.session.SetCategory(*req.Category)
	}

	start := s.session.StartRound
	if req.Daily {
		start = s.session.StartDailyRound
	}
	info, err := start(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.session.Info()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	Letter string `json:"letter"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	res, err := s.session.Guess(req.Letter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.Hint()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.GiveUp()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAlphabet(w http.ResponseWriter, r *http.Request) {
	lang := s.session.ResolveLanguage(r.URL.Query().Get("lang"))
	writeJSON(w, http.StatusOK, map[string]any{
		"language": lang,
		"letters":  s.session.Alphabet(lang),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	lang, names, err := s.session.Categories(r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language":   lang,
		"categories": names,
		"selected":   s.session.Category(),
	})
}

// ------------------------------ PROGRESS -----------------------------------

// mountProgress registers ledger routes.
func (s *Server) mountProgress(r chi.Router) {
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.ledger.Stats())
	})
	r.Get("/achievements", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.ledger.Achievements())
	})
	r.Post("/hints/buy", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount int `json:"amount"`
		}
		if err := decodeOptional(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
			return
		}
		balance := s.ledger.GrantHints(req.Amount)
		writeJSON(w, http.StatusOK, map[string]int{"hintsBalance": balance})
	})
	r.Post("/stats/reset", func(w http.ResponseWriter, r *http.Request) {
		s.ledger.Reset(r.Context())
		log.Info().Msg("progress reset")
		writeJSON(w, http.StatusOK, s.ledger.Stats())
	})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// decodeOptional decodes a JSON body into v. An empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// errorStatus maps game errors to an HTTP status and a short code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, game.ErrDuplicateGuess):
		return http.StatusConflict, "duplicate_guess"
	case errors.Is(err, game.ErrRoundClosed):
		return http.StatusConflict, "round_closed"
	case errors.Is(err, game.ErrNoHintNeeded):
		return http.StatusConflict, "no_hint_needed"
	case errors.Is(err, game.ErrNoHints):
		return http.StatusPaymentRequired, "no_hints"
	case errors.Is(err, game.ErrNoRound):
		return http.StatusNotFound, "no_round"
	case errors.Is(err, game.ErrNotReady):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, game.ErrConfiguration):
		return http.StatusServiceUnavailable, "misconfigured"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": code})
}
