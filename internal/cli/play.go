// Package cli runs the game in a terminal: it asks for settings, reads
// guesses, and prints results. The engine is driven only through its public
// operations in the order construct, then repeat (AvailableTurn, read guess,
// CompareAnswer, IsGuessCorrect) until the game ends.
package cli

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bagels/internal/alphabet"
	"github.com/robalobadob/bagels/internal/config"
	"github.com/robalobadob/bagels/internal/game"
)

// Play runs g to completion, reading guesses from in.
// It returns the final state, or io.ErrUnexpectedEOF if input ran out first.
func Play(g *game.Game, in io.Reader, p *Printer) (game.State, error) {
	br := bufio.NewReader(in)
	p.Intro(g)
	for g.AvailableTurn() {
		guess, err := ReadGuess(br, p, g.Length(), g.MaxLetter())
		if err != nil {
			log.Debug().Err(err).Int("guesses", g.Guesses()).Msg("game aborted")
			return g.State(), err
		}
		res := g.CompareAnswer(guess)
		p.Result(res, g.Guesses(), g.MaxGuesses())
		log.Debug().Str("guess", guess).Interface("result", res).Int("guesses", g.Guesses()).Msg("scored")
		if g.IsGuessCorrect(res) {
			p.Won(g.Guesses())
			return game.StateWon, nil
		}
	}
	p.Lost(g.Answer())
	return game.StateLost, nil
}

// ReadGuess prompts until a line holds exactly length letters from A..max,
// telling the player what was wrong with each rejected line. Input is
// trimmed and uppercased first.
func ReadGuess(br *bufio.Reader, p *Printer, length int, max rune) (string, error) {
	for {
		p.Prompt(max)
		line, err := br.ReadString('\n')
		if line == "" && err != nil {
			return "", eof(err)
		}
		guess := alphabet.Normalize(line)
		valid := alphabet.CountValid(max, guess)
		total := utf8.RuneCountInString(guess)
		if valid == length && total == length {
			return guess, nil
		}
		if total > valid {
			p.Reminder(max)
		}
		switch {
		case valid > length:
			p.TooLong(length)
		case valid < length:
			p.TooShort(length)
		}
		if err != nil {
			return "", eof(err)
		}
	}
}

// PromptConfig asks for each game setting, showing defaults. A blank answer
// keeps the default; an answer that fails validation is asked again.
func PromptConfig(in *bufio.Reader, p *Printer, defaults config.Game) (config.Game, error) {
	cfg := defaults
	fields := []struct {
		label string
		def   func() string
		set   func(string) error
		check error
	}{
		{
			label: "Maximum guesses",
			def:   func() string { return strconv.Itoa(cfg.MaxGuesses) },
			set:   intSetter(&cfg.MaxGuesses),
			check: config.ErrMaxGuesses,
		},
		{
			label: "Answer length",
			def:   func() string { return strconv.Itoa(cfg.Length) },
			set:   intSetter(&cfg.Length),
			check: config.ErrLength,
		},
		{
			label: "Last letter (A-Z)",
			def:   func() string { return cfg.MaxLetter },
			set:   func(s string) error { cfg.MaxLetter = strings.ToUpper(s); return nil },
			check: config.ErrMaxLetter,
		},
		{
			label: "Seed (blank for random)",
			def:   func() string { return cfg.Seed },
			set:   func(s string) error { cfg.Seed = s; return nil },
			check: config.ErrSeed,
		},
	}

	for _, f := range fields {
		for {
			p.Ask(f.label, f.def())
			line, err := in.ReadString('\n')
			if line == "" && err != nil {
				return config.Game{}, eof(err)
			}
			answer := strings.TrimSpace(line)
			prev := cfg
			if answer != "" {
				if serr := f.set(answer); serr != nil {
					p.Invalid(serr)
					continue
				}
			}
			if verr := cfg.Validate(); verr != nil && errors.Is(verr, f.check) {
				p.Invalid(verr)
				cfg = prev
				if err != nil {
					return config.Game{}, eof(err)
				}
				continue
			}
			break
		}
	}
	return cfg, cfg.Validate()
}

func intSetter(dst *int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("not a number")
		}
		*dst = n
		return nil
	}
}

func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
