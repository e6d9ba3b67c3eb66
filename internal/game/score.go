package game

// scoreCrossProduct implements the default Bagels rule.
//
//   - Exact: every index where secret and guess agree.
//   - Present: every remaining secret index whose letter equals some guess
//     letter at any position. Each secret position counts once, but repeated
//     letters in the secret each count, so "AAB" vs "ABA" gives 1 exact and
//     2 present.
//
// Lengths are not checked; positions past the shorter string are never
// exact.
func scoreCrossProduct(secret, guess string) Score {
	s := []rune(secret)
	g := []rune(guess)

	inGuess := make(map[rune]struct{}, len(g))
	for _, r := range g {
		inGuess[r] = struct{}{}
	}

	var out Score
	for i, r := range s {
		if i < len(g) && g[i] == r {
			out.Exact++
			continue
		}
		if _, ok := inGuess[r]; ok {
			out.Present++
		}
	}
	return out
}

// scoreCapped implements classic two-pass Mastermind scoring.
//
// Pass 1:
//   - Count exact matches.
//   - Count the remaining (non-exact) secret letters.
//
// Pass 2:
//   - For each non-exact guess letter with a remaining count, count a
//     present match and decrement.
func scoreCapped(secret, guess string) Score {
	s := []rune(secret)
	g := []rune(guess)

	var out Score
	counts := make(map[rune]int, len(s))
	exact := make([]bool, len(g))

	for i, r := range s {
		if i < len(g) && g[i] == r {
			out.Exact++
			exact[i] = true
		} else {
			counts[r]++
		}
	}

	for i, r := range g {
		if exact[i] {
			continue
		}
		if counts[r] > 0 {
			out.Present++
			counts[r]--
		}
	}
	return out
}
