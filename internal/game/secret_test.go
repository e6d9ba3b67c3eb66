package game

import (
	"testing"
)

// fixedSource replays bytes in a loop.
type fixedSource struct {
	bytes []byte
	pos   int
}

func (f *fixedSource) NextByte() byte {
	b := f.bytes[f.pos%len(f.bytes)]
	f.pos++
	return b
}

func TestSampleAlphanumericRejectsTopIndices(t *testing.T) {
	// 0xF8>>2 = 62 and 0xFC>>2 = 63 fall outside the table.
	src := &fixedSource{bytes: []byte{0xF8, 0xFC, 0x04}}
	if got := sampleAlphanumeric(src); got != 'B' {
		t.Fatalf("sampleAlphanumeric = %q, want 'B'", got)
	}
	if src.pos != 3 {
		t.Fatalf("expected 3 draws, got %d", src.pos)
	}
}

func TestGenerateSecretFiltersAlphabet(t *testing.T) {
	// 'C', 'a', '0' are outside A..B and are skipped in draw order.
	src := &fixedSource{bytes: []byte{2 << 2, 26 << 2, 52 << 2, 1 << 2, 0 << 2}}
	if got := generateSecret(src, 2, 'B'); got != "BA" {
		t.Fatalf("generateSecret = %q, want %q", got, "BA")
	}
}

func TestGenerateSecretEmpty(t *testing.T) {
	src := &fixedSource{bytes: []byte{0}}
	if got := generateSecret(src, 0, 'Z'); got != "" {
		t.Fatalf("generateSecret(0) = %q", got)
	}
	if src.pos != 0 {
		t.Fatal("zero-length secret must not draw")
	}
}

func TestNewGameSecretShape(t *testing.T) {
	letters := []rune{'A', 'C', 'J', 'Z'}
	lengths := []int{0, 1, 3, 10, 40}
	for seed := uint64(0); seed < 20; seed++ {
		for _, max := range letters {
			for _, n := range lengths {
				s := seed
				g := NewGame(Config{MaxGuesses: 10, Length: n, MaxLetter: max, Seed: &s})
				secret := g.Answer()
				if len(secret) != n {
					t.Fatalf("seed=%d max=%c len=%d: secret %q has length %d", seed, max, n, secret, len(secret))
				}
				for _, r := range secret {
					if r < 'A' || r > max {
						t.Fatalf("seed=%d max=%c: %q outside alphabet", seed, max, r)
					}
				}
			}
		}
	}
}

func TestUnseededSecretShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		g := NewGame(Config{MaxGuesses: 10, Length: 8, MaxLetter: 'F'})
		for _, r := range g.Answer() {
			if r < 'A' || r > 'F' {
				t.Fatalf("unseeded secret %q outside A..F", g.Answer())
			}
		}
		if len(g.Answer()) != 8 {
			t.Fatalf("unseeded secret %q has wrong length", g.Answer())
		}
	}
}

func TestSeededGenerationIsDeterministic(t *testing.T) {
	seed := uint64(42)
	cfg := Config{MaxGuesses: 10, Length: 12, MaxLetter: 'J', Seed: &seed}
	a := NewGame(cfg).Answer()
	b := NewGame(cfg).Answer()
	if a != b {
		t.Fatalf("same seed gave %q and %q", a, b)
	}

	other := uint64(43)
	cfg.Seed = &other
	if c := NewGame(cfg).Answer(); c == a {
		t.Fatalf("seeds 42 and 43 produced the same 12-letter secret %q", c)
	}
}

func TestSeededSourceCrossesRounds(t *testing.T) {
	a := NewSeededSource(7)
	b := NewSeededSource(7)
	for i := 0; i < 100; i++ {
		if x, y := a.NextByte(), b.NextByte(); x != y {
			t.Fatalf("byte %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestSourceFor(t *testing.T) {
	if _, ok := SourceFor(nil).(*entropySource); !ok {
		t.Fatal("nil seed must select the entropy source")
	}
	seed := uint64(1)
	if _, ok := SourceFor(&seed).(*seededSource); !ok {
		t.Fatal("seed must select the seeded source")
	}
}

func TestEntropySourceRefills(t *testing.T) {
	src := NewEntropySource()
	// Three buffers' worth; an unfilled buffer would read as all zeros.
	var seen [256]bool
	distinct := 0
	for i := 0; i < 192; i++ {
		if b := src.NextByte(); !seen[b] {
			seen[b] = true
			distinct++
		}
	}
	if distinct < 16 {
		t.Fatalf("only %d distinct bytes in 192 draws", distinct)
	}
}
