// Package config loads and validates game and server configuration.
//
// Values come from the environment first (struct tags parsed by
// caarlos0/env; main loads a .env file beforehand) and can then be
// overridden by command-line flags. A Game must pass Validate before a
// game.Config is built from it.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/bagels/internal/alphabet"
	"github.com/robalobadob/bagels/internal/game"
)

// MaxLength caps the secret length so a config cannot ask for unbounded work.
const MaxLength = 64

var (
	ErrMaxGuesses = errors.New("max guesses must be at least 1")
	ErrLength     = fmt.Errorf("answer length must be between 0 and %d", MaxLength)
	ErrMaxLetter  = errors.New("max letter must be a single uppercase letter A-Z")
	ErrSeed       = errors.New("seed must be an unsigned integer")
	ErrScoring    = errors.New(`scoring must be "cross" or "capped"`)
)

// Game holds the raw parameters for a new game.
type Game struct {
	MaxGuesses int    `env:"BAGELS_MAX_GUESSES" envDefault:"10"`
	Length     int    `env:"BAGELS_LENGTH_ANSWER" envDefault:"3"`
	MaxLetter  string `env:"BAGELS_MAX_LETTER" envDefault:"J"`
	Seed       string `env:"BAGELS_SEED"`
	Scoring    string `env:"BAGELS_SCORING" envDefault:"cross"`
}

// Play is the configuration of the terminal game.
type Play struct {
	Game
	Verbose     int
	Interactive bool
}

// Serve is the configuration of the HTTP server.
type Serve struct {
	Game
	Server
	Verbose int
}

// Server holds HTTP server settings.
type Server struct {
	Port           int           `env:"PORT" envDefault:"5175"`
	DBPath         string        `env:"BAGELS_DB" envDefault:"./data/bagels.db"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int           `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"bagels_token"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	NodeEnv        string        `env:"NODE_ENV" envDefault:"development"`
	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// Production reports whether cookies should be issued Secure.
func (s Server) Production() bool { return s.NodeEnv == "production" }

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParsePlay parses environment and flags into a Play config.
func ParsePlay(fs *flag.FlagSet, args []string) (Play, error) {
	var cfg Play
	if err := ParseEnv(&cfg.Game); err != nil {
		return Play{}, err
	}
	bindGame(fs, &cfg.Game)
	fs.Var((*counter)(&cfg.Verbose), "v", "verbosity; repeat for more (max 4)")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "prompt for game settings before playing")
	if err := fs.Parse(args); err != nil {
		return Play{}, err
	}
	return cfg, nil
}

// ParseServe parses environment and flags into a Serve config.
func ParseServe(fs *flag.FlagSet, args []string) (Serve, error) {
	var cfg Serve
	if err := ParseEnv(&cfg.Game); err != nil {
		return Serve{}, err
	}
	if err := ParseEnv(&cfg.Server); err != nil {
		return Serve{}, err
	}
	bindGame(fs, &cfg.Game)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path for accounts")
	fs.Var((*counter)(&cfg.Verbose), "v", "verbosity; repeat for more (max 4)")
	if err := fs.Parse(args); err != nil {
		return Serve{}, err
	}
	return cfg, nil
}

func bindGame(fs *flag.FlagSet, g *Game) {
	fs.IntVar(&g.MaxGuesses, "guess-max", g.MaxGuesses, "how many guesses until the player loses")
	fs.IntVar(&g.Length, "length-answer", g.Length, "length of the secret to guess")
	fs.StringVar(&g.MaxLetter, "max-letter", g.MaxLetter, "last letter of the alphabet (A-Z)")
	fs.StringVar(&g.Seed, "seed", g.Seed, "seed for a reproducible secret (empty for random)")
	fs.StringVar(&g.Scoring, "scoring", g.Scoring, `scoring rule: "cross" or "capped"`)
}

// Validate checks every field and returns the first problem found.
func (g Game) Validate() error {
	_, err := g.Build()
	return err
}

// Build validates g and converts it into an engine config.
func (g Game) Build() (game.Config, error) {
	if g.MaxGuesses < 1 {
		return game.Config{}, fmt.Errorf("%w (got %d)", ErrMaxGuesses, g.MaxGuesses)
	}
	if g.Length < 0 || g.Length > MaxLength {
		return game.Config{}, fmt.Errorf("%w (got %d)", ErrLength, g.Length)
	}
	maxLetter, err := alphabet.ParseBound(g.MaxLetter)
	if err != nil {
		return game.Config{}, fmt.Errorf("%w (got %q)", ErrMaxLetter, g.MaxLetter)
	}
	var seed *uint64
	if s := strings.TrimSpace(g.Seed); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return game.Config{}, fmt.Errorf("%w (got %q)", ErrSeed, g.Seed)
		}
		seed = &v
	}
	mode := game.ScoringMode(strings.ToLower(strings.TrimSpace(g.Scoring)))
	if mode == "" {
		mode = game.ScoringCrossProduct
	}
	if !mode.Valid() {
		return game.Config{}, fmt.Errorf("%w (got %q)", ErrScoring, g.Scoring)
	}
	return game.Config{
		MaxGuesses: g.MaxGuesses,
		Length:     g.Length,
		MaxLetter:  maxLetter,
		Seed:       seed,
		Scoring:    mode,
	}, nil
}

// counter is a repeatable boolean flag: each -v adds one, up to 4.
type counter int

func (c *counter) String() string {
	if c == nil {
		return "0"
	}
	return strconv.Itoa(int(*c))
}

func (c *counter) Set(string) error {
	if *c < 4 {
		*c++
	}
	return nil
}

func (c *counter) IsBoolFlag() bool { return true }
