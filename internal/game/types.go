// internal/game/types.go
//
// Core type definitions for the Bagels game engine.
// Defines:
//   - Token: per-match result word of a scored guess (Fermi/Pico/Bagels).
//   - Score: exact/present counts for a single guess.
//   - ScoringMode: which present-match rule the scorer applies.
//   - State: derived progress of a game (in progress/won/lost).
//   - Config: validated parameters a game is built from.

package game

// Token is one element of a scored guess.
// Possible values:
//   - "Fermi":  a secret position matched exactly.
//   - "Pico":   a secret letter appears elsewhere in the guess.
//   - "Bagels": nothing matched at all (always the sole token).
type Token string

const (
	TokenFermi  Token = "Fermi"
	TokenPico   Token = "Pico"
	TokenBagels Token = "Bagels"
)

// Score is the outcome of comparing one guess against the secret.
// A zero Score means no letter matched anywhere.
type Score struct {
	Exact   int `json:"exact"`
	Present int `json:"present"`
}

// None reports whether the guess shares no letter with the secret.
func (s Score) None() bool { return s.Exact == 0 && s.Present == 0 }

// Tokens renders the score as a token list: one Fermi per exact match,
// then one Pico per present match, or a lone Bagels when nothing matched.
func (s Score) Tokens() []Token {
	if s.None() {
		return []Token{TokenBagels}
	}
	out := make([]Token, 0, s.Exact+s.Present)
	for i := 0; i < s.Exact; i++ {
		out = append(out, TokenFermi)
	}
	for i := 0; i < s.Present; i++ {
		out = append(out, TokenPico)
	}
	return out
}

// ScoringMode selects how present matches are counted.
type ScoringMode string

const (
	// ScoringCrossProduct counts every non-exact secret position whose letter
	// occurs anywhere in the guess. Repeated letters each count on their own.
	ScoringCrossProduct ScoringMode = "cross"

	// ScoringCapped is classic Mastermind scoring: present matches are
	// capped by how often each letter remains in the secret.
	ScoringCapped ScoringMode = "capped"
)

// Valid reports whether m names a known scoring mode.
func (m ScoringMode) Valid() bool {
	return m == ScoringCrossProduct || m == ScoringCapped
}

// State is the derived progress of a game.
type State int

const (
	StateInProgress State = iota
	StateWon
	StateLost
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateInProgress:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further guesses should be taken.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Config holds the parameters a game is built from. It is expected to be
// validated already (see internal/config); the engine does not re-check it.
type Config struct {
	MaxGuesses int         // Upper bound on turns (>= 1).
	Length     int         // Secret and guess length (>= 0).
	MaxLetter  rune        // Last letter of the alphabet 'A'..MaxLetter (ASCII uppercase).
	Seed       *uint64     // Deterministic secret when set; entropy otherwise.
	Scoring    ScoringMode // Empty means ScoringCrossProduct.
}
