// internal/game/engine.go
//
// Core game engine for a single Bagels game.
// Responsibilities:
//   - Create new games with a secret drawn from the configured alphabet.
//   - Score guesses (cross-product or multiplicity-capped rule).
//   - Track turns and report progress: playing → won/lost.
//
// Notes:
//   - The engine trusts its Config and its guesses; validation belongs to
//     internal/config and internal/alphabet.
//   - Compare keeps scoring after the game is over. Callers decide when to
//     stop (internal/session refuses guesses on finished games).
//   - A Game is owned by one caller at a time and is not safe for
//     concurrent use.
package game

// Game holds the state of a single game.
type Game struct {
	maxGuesses int
	guesses    int
	length     int
	maxLetter  rune
	scoring    ScoringMode
	secret     string
	solved     bool
}

// NewGame constructs a game whose secret comes from the seeded source when
// cfg.Seed is set, or from crypto/rand otherwise.
func NewGame(cfg Config) *Game {
	return New(cfg, SourceFor(cfg.Seed))
}

// New constructs a game drawing its secret from src.
// cfg.MaxLetter must be an uppercase ASCII letter; anything below 'A' never
// yields a candidate and secret generation would not terminate.
func New(cfg Config, src ByteSource) *Game {
	scoring := cfg.Scoring
	if scoring == "" {
		scoring = ScoringCrossProduct
	}
	return &Game{
		maxGuesses: cfg.MaxGuesses,
		length:     cfg.Length,
		maxLetter:  cfg.MaxLetter,
		scoring:    scoring,
		secret:     generateSecret(src, cfg.Length, cfg.MaxLetter),
	}
}

// Compare scores guess against the secret and uses up one turn, whatever
// the guess looks like.
func (g *Game) Compare(guess string) Score {
	g.guesses++
	var s Score
	switch g.scoring {
	case ScoringCapped:
		s = scoreCapped(g.secret, guess)
	default:
		s = scoreCrossProduct(g.secret, guess)
	}
	if g.Solved(s) {
		g.solved = true
	}
	return s
}

// CompareAnswer is Compare rendered as tokens.
func (g *Game) CompareAnswer(guess string) []Token {
	return g.Compare(guess).Tokens()
}

// AvailableTurn reports whether another guess may be attempted.
func (g *Game) AvailableTurn() bool { return g.guesses < g.maxGuesses }

// IsGuessCorrect reports whether result describes the secret: exactly Length
// Fermi tokens and no more than Length tokens overall.
func (g *Game) IsGuessCorrect(result []Token) bool {
	if len(result) > g.length {
		return false
	}
	exact := 0
	for _, t := range result {
		if t == TokenFermi {
			exact++
		}
	}
	return exact == g.length
}

// Solved is IsGuessCorrect for a Score. A zero-length game can never be
// solved, since its only possible result is a lone Bagels.
func (g *Game) Solved(s Score) bool {
	return g.IsGuessCorrect(s.Tokens())
}

// State reports progress: won once any scored guess was correct, lost once
// turns ran out without a win, playing otherwise.
func (g *Game) State() State {
	switch {
	case g.solved:
		return StateWon
	case !g.AvailableTurn():
		return StateLost
	default:
		return StateInProgress
	}
}

// Answer reveals the secret. Intended for the end of a lost game.
func (g *Game) Answer() string { return g.secret }

// MaxGuesses is the configured turn limit.
func (g *Game) MaxGuesses() int { return g.maxGuesses }

// Guesses is the number of scored guesses so far.
func (g *Game) Guesses() int { return g.guesses }

// Remaining is the number of turns left, never negative.
func (g *Game) Remaining() int {
	if g.guesses >= g.maxGuesses {
		return 0
	}
	return g.maxGuesses - g.guesses
}

// Length is the required guess length.
func (g *Game) Length() int { return g.length }

// MaxLetter is the last letter of the alphabet.
func (g *Game) MaxLetter() rune { return g.maxLetter }

// Scoring is the active scoring mode.
func (g *Game) Scoring() ScoringMode { return g.scoring }
