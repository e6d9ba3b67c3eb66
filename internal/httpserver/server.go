// internal/httpserver/server.go
//
// HTTP server wiring for the Bagels backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging, tracing).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Account endpoints: /auth/*.
//
// Notes:
//   - Every game belongs to the player who started it (user ID or anonymous
//     cookie ID); other players get 403.
//   - Games live in the session store only; nothing about them is persisted.
//   - Guesses on a finished game get 409, malformed guesses 400. Neither
//     uses a turn.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/robalobadob/bagels/internal/auth"
	"github.com/robalobadob/bagels/internal/config"
	"github.com/robalobadob/bagels/internal/game"
	"github.com/robalobadob/bagels/internal/session"
	"github.com/robalobadob/bagels/internal/store"
	"github.com/robalobadob/bagels/internal/telemetry"
)

// Options configures a Server.
type Options struct {
	Defaults     config.Game      // settings for games that do not override them
	ClientOrigin string           // allowed CORS origin
	DailySalt    string           // salt for the daily puzzle seed
	Now          func() time.Time // clock, for tests; time.Now when nil
}

// Server bundles router, session store, and authenticator.
type Server struct {
	r      *chi.Mux
	store  store.Store
	auth   *auth.Authenticator
	opts   Options
	tracer trace.Tracer
	daily  *dailyIndex
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, a *auth.Authenticator, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		auth:   a,
		opts:   opts,
		tracer: telemetry.Tracer("httpserver"),
		daily:  newDailyIndex(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one log line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(telemetry.Middleware(s.tracer))  // one span per request
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "bagels",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "GET /game/{id}", "POST /daily/new", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Game endpoints: optional auth, guests can play
	s.r.Group(func(r chi.Router) {
		r.Use(s.auth.Optional())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleProgress)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests and for serving).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status, bytes, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq overrides the server defaults for one game. Omitted fields keep
// the default.
type newGameReq struct {
	MaxGuesses *int    `json:"maxGuesses"`
	Length     *int    `json:"length"`
	MaxLetter  *string `json:"maxLetter"`
	Seed       *string `json:"seed"`
	Scoring    *string `json:"scoring"`
}

func (req newGameReq) apply(cfg config.Game) config.Game {
	if req.MaxGuesses != nil {
		cfg.MaxGuesses = *req.MaxGuesses
	}
	if req.Length != nil {
		cfg.Length = *req.Length
	}
	if req.MaxLetter != nil {
		cfg.MaxLetter = *req.MaxLetter
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.Scoring != nil {
		cfg.Scoring = *req.Scoring
	}
	return cfg
}

// handleNewGame validates settings, creates a game, and stores its session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	cfg, err := req.apply(s.opts.Defaults).Build()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_config", "detail": err.Error()})
		return
	}

	sess := session.New(s.auth.Owner(w, r), game.NewGame(cfg))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.AttrGameID.String(sess.ID))
	log.Debug().Str("gameId", sess.ID).Str("owner", sess.Owner).Msg("game started")

	writeJSON(w, http.StatusOK, sess.Progress())
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Exact     int          `json:"exact"`
	Present   int          `json:"present"`
	Tokens    []game.Token `json:"tokens"`
	State     string       `json:"state"` // "playing" | "won" | "lost"
	Guesses   int          `json:"guesses"`
	Remaining int          `json:"remaining"`
	Answer    string       `json:"answer,omitempty"`
}

// handleGuess scores a guess for the caller's game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "game.guess", trace.WithAttributes(telemetry.AttrGameID.String(sess.ID)))
	defer span.End()

	res, err := sess.Guess(s.auth.Owner(w, r), req.Guess)
	switch {
	case errors.Is(err, session.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, session.ErrFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case errors.Is(err, session.ErrInvalidGuess):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_guess", "detail": err.Error()})
		return
	case err != nil:
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	if err := s.store.Save(ctx, sess); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	span.SetAttributes(telemetry.GuessAttributes(sess.ID, res.Score, res.State, res.Guesses)...)
	if res.State != game.StateInProgress.String() {
		log.Info().Str("gameId", sess.ID).Str("state", res.State).Int("guesses", res.Guesses).Msg("game over")
	}

	writeJSON(w, http.StatusOK, guessRes{
		Exact:     res.Score.Exact,
		Present:   res.Score.Present,
		Tokens:    res.Tokens,
		State:     res.State,
		Guesses:   res.Guesses,
		Remaining: res.Remaining,
		Answer:    res.Answer,
	})
}

// handleProgress reports a game's progress to its owner.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if !sess.OwnedBy(s.auth.Owner(w, r)) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, sess.Progress())
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
