// Command bagels plays the Bagels number-guessing game.
//
//	bagels [play] [flags]   play in the terminal (default)
//	bagels serve [flags]    run the HTTP game server
//
// Settings come from the environment (a .env file is loaded first) and can be
// overridden with flags; run a subcommand with -h to list them.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bagels/internal/auth"
	"github.com/robalobadob/bagels/internal/cli"
	"github.com/robalobadob/bagels/internal/config"
	"github.com/robalobadob/bagels/internal/database"
	"github.com/robalobadob/bagels/internal/game"
	"github.com/robalobadob/bagels/internal/httpserver"
	"github.com/robalobadob/bagels/internal/store"
	"github.com/robalobadob/bagels/internal/telemetry"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := "play"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "play":
		return runPlay(args, stdin, stdout, stderr)
	case "serve":
		return runServe(args, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q (want play or serve)\n", cmd)
		return exitUsage
	}
}

func runPlay(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.ParsePlay(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(logLevel(cfg.Verbose, os.Getenv("LOG_LEVEL"), zerolog.WarnLevel))

	in := bufio.NewReader(stdin)
	p := cli.NewPrinter(stdout)
	settings := cfg.Game
	if cfg.Interactive {
		if settings, err = cli.PromptConfig(in, p, settings); err != nil {
			log.Error().Err(err).Msg("reading settings")
			return exitError
		}
	}
	gc, err := settings.Build()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log.Info().
		Int("maxGuesses", gc.MaxGuesses).
		Int("length", gc.Length).
		Str("maxLetter", string(gc.MaxLetter)).
		Bool("seeded", gc.Seed != nil).
		Str("scoring", string(gc.Scoring)).
		Msg("new game")

	state, err := cli.Play(game.NewGame(gc), in, p)
	if err != nil {
		log.Error().Err(err).Msg("game aborted")
		return exitError
	}
	log.Info().Stringer("state", state).Msg("game over")
	return exitOK
}

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.ParseServe(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log.Logger = zerolog.New(stderr).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(logLevel(cfg.Verbose, cfg.LogLevel, zerolog.InfoLevel))

	// Reject bad game defaults at startup rather than on the first request.
	if err := cfg.Game.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid game defaults")
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, version)
	if err != nil {
		log.Error().Err(err).Msg("telemetry setup")
		return exitError
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	db, err := database.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("db", cfg.DBPath).Msg("failed to open database")
		return exitError
	}
	defer db.Close()

	authn := auth.NewAuthenticator(auth.NewUsers(db), auth.Options{
		Secret:      cfg.JWTSecret,
		ExpiresDays: cfg.JWTExpiresDays,
		CookieName:  cfg.CookieName,
		Production:  cfg.Production(),
	})
	if cfg.Production() && cfg.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET is the development default")
	}

	mem := store.NewMemoryStore()
	if cfg.SessionTTL > 0 {
		go store.RunPruner(ctx, mem, cfg.SessionTTL, pruneInterval(cfg.SessionTTL))
	}

	srv := httpserver.New(mem, authn, httpserver.Options{
		Defaults:     cfg.Game,
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
	})
	addr := ":" + strconv.Itoa(cfg.Port)
	log.Info().Str("addr", addr).Str("version", version).Bool("tracing", telemetry.Enabled()).Msg("starting bagels server")
	if err := srv.Start(ctx, addr); err != nil {
		log.Error().Err(err).Msg("server exited")
		return exitError
	}
	log.Info().Msg("server stopped")
	return exitOK
}

// logLevel maps -v counts to a level: 1 info, 2 debug, 3+ trace. With no -v
// a parseable LOG_LEVEL wins, otherwise def.
func logLevel(verbose int, env string, def zerolog.Level) zerolog.Level {
	switch {
	case verbose >= 3:
		return zerolog.TraceLevel
	case verbose == 2:
		return zerolog.DebugLevel
	case verbose == 1:
		return zerolog.InfoLevel
	}
	if env != "" {
		if lvl, err := zerolog.ParseLevel(env); err == nil {
			return lvl
		}
	}
	return def
}

// pruneInterval checks for idle sessions a few times per TTL, at most once a
// minute.
func pruneInterval(ttl time.Duration) time.Duration {
	iv := ttl / 4
	if iv < time.Minute {
		iv = time.Minute
	}
	return iv
}
