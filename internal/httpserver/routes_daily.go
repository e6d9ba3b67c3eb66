// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
//   - POST /daily/new → start today's game (creates or reuses the session)
//
// Everyone gets the same secret on a given UTC date; the seed is derived from
// date + salt. Each player has one daily session per date, so asking again
// returns the game already in progress (or already finished). Guesses go
// through POST /game/guess like any other game.

package httpserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/robalobadob/bagels/internal/daily"
	"github.com/robalobadob/bagels/internal/game"
	"github.com/robalobadob/bagels/internal/session"
	"github.com/robalobadob/bagels/internal/telemetry"
)

// dailyIndex maps owner|date to the ID of that player's daily session.
type dailyIndex struct {
	mu  sync.Mutex
	ids map[string]string
}

func newDailyIndex() *dailyIndex {
	return &dailyIndex{ids: make(map[string]string)}
}

func (d *dailyIndex) get(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.ids[key]
	return id, ok
}

func (d *dailyIndex) put(key, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[key] = id
}

// claim re-keys from's daily sessions to to. A date for which to already has
// a session keeps that one.
func (d *dailyIndex) claim(from, to string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := from + "|"
	for k, id := range d.ids {
		date, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		delete(d.ids, k)
		if _, taken := d.ids[to+"|"+date]; !taken {
			d.ids[to+"|"+date] = id
		}
	}
}

// forgetBefore drops entries for dates other than today.
func (d *dailyIndex) forgetBefore(today string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k := range d.ids {
		if !strings.HasSuffix(k, "|"+today) {
			delete(d.ids, k)
		}
	}
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
	})
}

// dailyRes is returned by /daily/new.
type dailyRes struct {
	session.Progress
	Date   string `json:"date"`
	Played bool   `json:"played"` // today's game is already over
}

// handleDailyNew creates or reuses today's daily session for the caller.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	owner := s.auth.Owner(w, r)
	now := s.opts.Now()
	date := daily.DateKey(now)
	key := owner + "|" + date

	if id, ok := s.daily.get(key); ok {
		if sess, err := s.store.Get(r.Context(), id); err == nil {
			writeJSON(w, http.StatusOK, dailyRes{Progress: sess.Progress(), Date: date, Played: sess.Finished()})
			return
		}
	}

	base, err := s.opts.Defaults.Build()
	if err != nil {
		log.Error().Err(err).Msg("daily: invalid default config")
		writeError(w, http.StatusInternalServerError, "invalid_config")
		return
	}
	sess := session.New(owner, game.NewGame(daily.Config(base, now, s.opts.DailySalt)))
	sess.Daily = date
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.daily.forgetBefore(date)
	s.daily.put(key, sess.ID)
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.AttrGameID.String(sess.ID), telemetry.AttrDaily.String(date))
	log.Debug().Str("gameId", sess.ID).Str("date", date).Msg("daily game started")

	writeJSON(w, http.StatusOK, dailyRes{Progress: sess.Progress(), Date: date})
}
