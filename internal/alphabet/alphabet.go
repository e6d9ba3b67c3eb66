// internal/alphabet/alphabet.go
//
// Helpers for the game alphabet: the closed range 'A'..max of uppercase
// ASCII letters.
//
// Responsibilities:
//   - Validate and parse the alphabet bound given by configuration.
//   - Normalise raw guesses (trim, uppercase).
//   - Check guesses against length and alphabet, and count usable letters
//     for prompt feedback.

package alphabet

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrBound is returned when a bound is not one uppercase ASCII letter.
	ErrBound = errors.New("alphabet: bound must be a single letter A-Z")

	// ErrGuessLength is returned when a guess has the wrong number of letters.
	ErrGuessLength = errors.New("alphabet: wrong guess length")

	// ErrGuessLetter is returned when a guess holds a letter outside the range.
	ErrGuessLetter = errors.New("alphabet: letter outside alphabet")
)

// ParseBound parses a configured bound such as "J".
// The bound must be exactly one uppercase ASCII letter.
func ParseBound(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrBound, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !IsBound(r) {
		return 0, fmt.Errorf("%w: %q", ErrBound, s)
	}
	return r, nil
}

// IsBound reports whether r can close the alphabet range.
func IsBound(r rune) bool { return r >= 'A' && r <= 'Z' }

// Contains reports whether r lies in 'A'..max.
func Contains(max, r rune) bool { return r >= 'A' && r <= max }

// Size is the number of letters in 'A'..max.
func Size(max rune) int {
	if max < 'A' {
		return 0
	}
	return int(max-'A') + 1
}

// Letters lists the alphabet, e.g. "ABCDEFGHIJ" for max 'J'.
func Letters(max rune) string {
	var b strings.Builder
	for r := 'A'; r <= max && r <= 'Z'; r++ {
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize trims surrounding whitespace and uppercases ASCII letters.
// Other runes are left alone, so 'ſ' stays 'ſ' rather than becoming 'S'.
func Normalize(guess string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, strings.TrimSpace(guess))
}

// CountValid counts the letters of s that lie in 'A'..max.
func CountValid(max rune, s string) int {
	n := 0
	for _, r := range s {
		if Contains(max, r) {
			n++
		}
	}
	return n
}

// ValidateGuess checks that guess has exactly length letters, all in 'A'..max.
func ValidateGuess(guess string, length int, max rune) error {
	if n := utf8.RuneCountInString(guess); n != length {
		return fmt.Errorf("%w: got %d, need %d", ErrGuessLength, n, length)
	}
	for _, r := range guess {
		if !Contains(max, r) {
			return fmt.Errorf("%w: %q not in [A-%c]", ErrGuessLetter, r, max)
		}
	}
	return nil
}
