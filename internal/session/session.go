// internal/session/session.go
//
// A Session is one player's game as seen by a front-end. It adds what the
// bare engine leaves to its caller:
//   - an ID and an owner, so only the player who started a game can guess;
//   - guess validation, so a malformed guess is rejected without using a turn;
//   - refusal of guesses once the game is won or lost (ErrFinished).
//
// A session serialises access to its game with a mutex; the engine itself has
// no locking.

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/bagels/internal/alphabet"
	"github.com/robalobadob/bagels/internal/game"
)

var (
	ErrFinished     = errors.New("game finished")
	ErrInvalidGuess = errors.New("invalid guess")
	ErrForbidden    = errors.New("game belongs to another player")
)

// Session wraps a game with ownership and bookkeeping.
type Session struct {
	ID        string
	Owner     string
	Daily     string // date key for daily games, empty otherwise
	StartedAt time.Time

	mu       sync.Mutex
	game     *game.Game
	lastSeen time.Time
}

// Result is the outcome of one accepted guess.
type Result struct {
	Score     game.Score   `json:"score"`
	Tokens    []game.Token `json:"tokens"`
	State     string       `json:"state"`
	Guesses   int          `json:"guesses"`
	Remaining int          `json:"remaining"`
	Answer    string       `json:"answer,omitempty"` // revealed only on a loss
}

// Progress is a read-only view of a session.
type Progress struct {
	ID         string `json:"gameId"`
	State      string `json:"state"`
	Guesses    int    `json:"guesses"`
	MaxGuesses int    `json:"maxGuesses"`
	Remaining  int    `json:"remaining"`
	Length     int    `json:"length"`
	MaxLetter  string `json:"maxLetter"`
	Scoring    string `json:"scoring"`
	Daily      string `json:"daily,omitempty"`
}

// New starts a session for owner around g.
func New(owner string, g *game.Game) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		StartedAt: now,
		game:      g,
		lastSeen:  now,
	}
}

// Guess validates and scores guess on behalf of owner.
func (s *Session) Guess(owner, guess string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner != s.Owner {
		return Result{}, ErrForbidden
	}
	s.lastSeen = time.Now()

	if s.game.State().Terminal() {
		return Result{}, ErrFinished
	}
	guess = alphabet.Normalize(guess)
	if err := alphabet.ValidateGuess(guess, s.game.Length(), s.game.MaxLetter()); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidGuess, err)
	}

	score := s.game.Compare(guess)
	res := Result{
		Score:     score,
		Tokens:    score.Tokens(),
		State:     s.game.State().String(),
		Guesses:   s.game.Guesses(),
		Remaining: s.game.Remaining(),
	}
	if s.game.State() == game.StateLost {
		res.Answer = s.game.Answer()
	}
	return res, nil
}

// Progress reports the session without revealing the secret.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{
		ID:         s.ID,
		State:      s.game.State().String(),
		Guesses:    s.game.Guesses(),
		MaxGuesses: s.game.MaxGuesses(),
		Remaining:  s.game.Remaining(),
		Length:     s.game.Length(),
		MaxLetter:  string(s.game.MaxLetter()),
		Scoring:    string(s.game.Scoring()),
		Daily:      s.Daily,
	}
}

// OwnedBy reports whether owner started the session.
func (s *Session) OwnedBy(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Owner == owner
}

// Claim hands the session to to if it currently belongs to from.
func (s *Session) Claim(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Owner != from {
		return false
	}
	s.Owner = to
	return true
}

// Finished reports whether the game is won or lost.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State().Terminal()
}

// IdleSince reports when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
