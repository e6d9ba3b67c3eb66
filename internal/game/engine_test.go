package game

import (
	"testing"
)

// withSecret builds a game with a fixed secret, bypassing generation.
func withSecret(secret string, maxGuesses int, scoring ScoringMode) *Game {
	if scoring == "" {
		scoring = ScoringCrossProduct
	}
	return &Game{
		maxGuesses: maxGuesses,
		length:     len(secret),
		maxLetter:  'Z',
		scoring:    scoring,
		secret:     secret,
	}
}

func countTokens(tokens []Token) (fermi, pico, bagels int) {
	for _, t := range tokens {
		switch t {
		case TokenFermi:
			fermi++
		case TokenPico:
			pico++
		case TokenBagels:
			bagels++
		}
	}
	return
}

func TestCompareAnswerScenarios(t *testing.T) {
	cases := []struct {
		name              string
		secret, guess     string
		fermi, pico, bags int
		correct           bool
	}{
		{"all exact", "ABC", "ABC", 3, 0, 0, true},
		{"all present", "ABC", "CAB", 0, 3, 0, false},
		{"nothing shared", "ABC", "XYZ", 0, 0, 1, false},
		{"repeated secret letters", "AAB", "ABA", 1, 2, 0, false},
		{"one exact one present", "ABC", "AXB", 1, 1, 0, false},
		{"repeated guess letter", "ABC", "AAA", 1, 0, 0, false},
		{"secret repeats count per position", "AAB", "AXX", 1, 1, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := withSecret(tc.secret, 10, "")
			res := g.CompareAnswer(tc.guess)
			f, p, b := countTokens(res)
			if f != tc.fermi || p != tc.pico || b != tc.bags {
				t.Fatalf("CompareAnswer(%q) vs %q = %v; want %d fermi, %d pico, %d bagels",
					tc.guess, tc.secret, res, tc.fermi, tc.pico, tc.bags)
			}
			if b == 1 && len(res) != 1 {
				t.Fatalf("Bagels must be the only token, got %v", res)
			}
			if got := g.IsGuessCorrect(res); got != tc.correct {
				t.Fatalf("IsGuessCorrect(%v) = %v, want %v", res, got, tc.correct)
			}
		})
	}
}

func TestCappedScoring(t *testing.T) {
	cases := []struct {
		secret, guess  string
		exact, present int
	}{
		{"ABC", "CAB", 0, 3},
		{"AAB", "ABA", 1, 2},
		{"AAB", "AXX", 1, 0},
		{"ABC", "AAA", 1, 0},
		{"AABB", "BBAA", 0, 4},
		{"ABCD", "DDDD", 1, 0},
		{"ABCD", "XYZW", 0, 0},
	}
	for _, tc := range cases {
		g := withSecret(tc.secret, 10, ScoringCapped)
		got := g.Compare(tc.guess)
		if got.Exact != tc.exact || got.Present != tc.present {
			t.Errorf("capped %q vs %q = %+v, want exact=%d present=%d",
				tc.guess, tc.secret, got, tc.exact, tc.present)
		}
	}
}

func TestScoringModesDiverge(t *testing.T) {
	cross := withSecret("AAB", 10, ScoringCrossProduct).Compare("AXX")
	capped := withSecret("AAB", 10, ScoringCapped).Compare("AXX")
	if cross.Present != 1 || capped.Present != 0 {
		t.Fatalf("expected cross=1 capped=0 present, got cross=%+v capped=%+v", cross, capped)
	}
}

func TestExactCountMatchesPositionalMatches(t *testing.T) {
	secret := "ABCDEFGHIJ"
	guesses := []string{"ABCDEFGHIJ", "JIHGFEDCBA", "AXCXEXGXIX", "XXXXXXXXXX", "BACDEFGHJI"}
	for _, guess := range guesses {
		want := 0
		for i := range secret {
			if secret[i] == guess[i] {
				want++
			}
		}
		got := withSecret(secret, 10, "").Compare(guess)
		if got.Exact != want {
			t.Errorf("Compare(%q).Exact = %d, want %d", guess, got.Exact, want)
		}
	}
}

func TestCompareMismatchedLengths(t *testing.T) {
	g := withSecret("ABC", 10, "")

	short := g.Compare("A")
	if short.Exact != 1 || short.Present != 0 {
		t.Fatalf("short guess: got %+v", short)
	}
	long := g.Compare("ABCABC")
	if long.Exact != 3 || long.Present != 0 {
		t.Fatalf("long guess: got %+v", long)
	}
	empty := g.CompareAnswer("")
	if len(empty) != 1 || empty[0] != TokenBagels {
		t.Fatalf("empty guess: got %v", empty)
	}
	if g.Guesses() != 3 {
		t.Fatalf("malformed guesses must still use turns, got %d", g.Guesses())
	}
}

func TestCompareAlwaysUsesATurn(t *testing.T) {
	g := withSecret("ABC", 3, "")
	for i, guess := range []string{"ABC", "", "not-a-guess"} {
		g.Compare(guess)
		if g.Guesses() != i+1 {
			t.Fatalf("after %d calls Guesses() = %d", i+1, g.Guesses())
		}
	}
	// past the limit the engine keeps counting; callers stop.
	g.Compare("ABC")
	if g.Guesses() != 4 {
		t.Fatalf("expected permissive counting past max, got %d", g.Guesses())
	}
	if g.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", g.Remaining())
	}
}

func TestAvailableTurn(t *testing.T) {
	g := withSecret("ABC", 2, "")
	if !g.AvailableTurn() {
		t.Fatal("fresh game must have a turn")
	}
	g.Compare("XYZ")
	if !g.AvailableTurn() {
		t.Fatal("1 of 2 used, expected a turn")
	}
	g.Compare("XYZ")
	if g.AvailableTurn() {
		t.Fatal("2 of 2 used, expected no turn")
	}
}

func TestSingleTurnGameEndsEvenOnWin(t *testing.T) {
	for _, guess := range []string{"ABC", "XYZ"} {
		g := withSecret("ABC", 1, "")
		g.CompareAnswer(guess)
		if g.AvailableTurn() {
			t.Fatalf("guess %q: AvailableTurn() should be false after the only turn", guess)
		}
	}
}

func TestIsGuessCorrect(t *testing.T) {
	g := withSecret("ABC", 10, "")
	cases := []struct {
		name   string
		result []Token
		want   bool
	}{
		{"three fermi", []Token{TokenFermi, TokenFermi, TokenFermi}, true},
		{"two fermi", []Token{TokenFermi, TokenFermi, TokenPico}, false},
		{"too many tokens", []Token{TokenFermi, TokenFermi, TokenFermi, TokenPico}, false},
		{"four fermi", []Token{TokenFermi, TokenFermi, TokenFermi, TokenFermi}, false},
		{"bagels", []Token{TokenBagels}, false},
		{"empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.IsGuessCorrect(tc.result); got != tc.want {
				t.Fatalf("IsGuessCorrect(%v) = %v, want %v", tc.result, got, tc.want)
			}
		})
	}
}

func TestStateTransitions(t *testing.T) {
	g := withSecret("ABC", 2, "")
	if g.State() != StateInProgress {
		t.Fatalf("initial state = %v", g.State())
	}
	g.Compare("ABX")
	if g.State() != StateInProgress {
		t.Fatalf("after miss state = %v", g.State())
	}
	g.Compare("ABC")
	if g.State() != StateWon {
		t.Fatalf("after win on last turn state = %v, want won", g.State())
	}

	lost := withSecret("ABC", 1, "")
	lost.Compare("CBA")
	if lost.State() != StateLost {
		t.Fatalf("state = %v, want lost", lost.State())
	}
	if lost.Answer() != "ABC" {
		t.Fatalf("Answer() = %q", lost.Answer())
	}
	if !lost.State().Terminal() || StateInProgress.Terminal() {
		t.Fatal("Terminal() mismatch")
	}
}

func TestZeroLengthGame(t *testing.T) {
	g := NewGame(Config{MaxGuesses: 2, Length: 0, MaxLetter: 'J'})
	if g.Answer() != "" {
		t.Fatalf("expected empty secret, got %q", g.Answer())
	}
	res := g.CompareAnswer("")
	if len(res) != 1 || res[0] != TokenBagels {
		t.Fatalf("got %v, want lone Bagels", res)
	}
	if g.IsGuessCorrect(res) {
		t.Fatal("zero-length game cannot be won")
	}
}

func TestScoreTokens(t *testing.T) {
	if got := (Score{}).Tokens(); len(got) != 1 || got[0] != TokenBagels {
		t.Fatalf("zero score tokens = %v", got)
	}
	got := Score{Exact: 2, Present: 1}.Tokens()
	f, p, b := countTokens(got)
	if f != 2 || p != 1 || b != 0 {
		t.Fatalf("tokens = %v", got)
	}
}

func TestNewDefaultsScoring(t *testing.T) {
	g := New(Config{MaxGuesses: 1, Length: 1, MaxLetter: 'A'}, NewEntropySource())
	if g.Scoring() != ScoringCrossProduct {
		t.Fatalf("Scoring() = %q", g.Scoring())
	}
	if g.Answer() != "A" {
		t.Fatalf("single-letter alphabet must give A, got %q", g.Answer())
	}
}
