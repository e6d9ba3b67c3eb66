// internal/cli/printer.go
//
// Console output for the terminal game. Tokens are coloured when the writer
// is a terminal that supports it (termenv picks the profile); otherwise plain
// text is written.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/robalobadob/bagels/internal/alphabet"
	"github.com/robalobadob/bagels/internal/game"
)

// Printer writes prompts and results.
type Printer struct {
	out *termenv.Output
}

// NewPrinter wraps w. Options are passed through to termenv, e.g.
// termenv.WithProfile(termenv.Ascii) to force plain output.
func NewPrinter(w io.Writer, opts ...termenv.OutputOption) *Printer {
	return &Printer{out: termenv.NewOutput(w, opts...)}
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Intro explains the rules once at the start of a game.
func (p *Printer) Intro(g *game.Game) {
	p.printf("I am thinking of a %d-letter code using the %d letters %s.\n",
		g.Length(), alphabet.Size(g.MaxLetter()), alphabet.Letters(g.MaxLetter()))
	p.printf("%s: right letter, right place. %s: right letter, wrong place. %s: nothing matched.\n",
		p.token(game.TokenFermi), p.token(game.TokenPico), p.token(game.TokenBagels))
	p.printf("You have %d guesses.\n", g.MaxGuesses())
}

// Prompt asks for the next guess.
func (p *Printer) Prompt(max rune) {
	p.printf("Enter in guess - valid characters [A-%c]: ", max)
}

// Reminder is shown when a guess contained characters outside the alphabet.
func (p *Printer) Reminder(max rune) {
	p.printf("REMINDER: characters for guess must be [A-%c]\n", max)
}

// TooLong reports a guess with too many letters.
func (p *Printer) TooLong(length int) {
	p.printf("Your guess is too long, needs to be %d\n", length)
}

// TooShort reports a guess with too few letters.
func (p *Printer) TooShort(length int) {
	p.printf("Your guess is too short, needs to be %d\n", length)
}

// Result prints the tokens for one scored guess with the turn count.
func (p *Printer) Result(tokens []game.Token, used, max int) {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = p.token(t)
	}
	p.printf("%s  (%d/%d)\n", strings.Join(parts, " "), used, max)
}

// Won congratulates the player.
func (p *Printer) Won(used int) {
	p.printf("%s You got it in %d guesses!\n", p.out.String("Correct!").Bold(), used)
}

// Lost reveals the secret.
func (p *Printer) Lost(answer string) {
	p.printf("Out of guesses. The answer was %s\n", p.out.String(answer).Bold())
}

// Ask prints a configuration question with its default.
func (p *Printer) Ask(label, def string) {
	p.printf("%s [%s]: ", label, def)
}

// Invalid reports a rejected configuration answer.
func (p *Printer) Invalid(err error) {
	p.printf("Invalid value: %v\n", err)
}

func (p *Printer) token(t game.Token) string {
	s := p.out.String(string(t))
	switch t {
	case game.TokenFermi:
		s = s.Foreground(p.out.Color("2")).Bold()
	case game.TokenPico:
		s = s.Foreground(p.out.Color("3"))
	case game.TokenBagels:
		s = s.Foreground(p.out.Color("8"))
	}
	return s.String()
}
