// internal/game/engine.go
//
// Guess evaluation using the classic two-pass Wordle algorithm.
//
// Pass 1:
//   - Mark exact matches as correct; they are consumed from the pool.
//   - Count the remaining (unmatched) secret letters.
//
// Pass 2:
//   - For each guess letter not already correct: if the pool still holds that
//     letter, mark it present and consume one copy; otherwise mark it absent.
//
// Consuming exactly one copy per present verdict bounds duplicate letters: a
// letter guessed twice but occurring once in the secret scores once.
package game

// Evaluate scores guess against secret. Both are expected to be uppercase
// A–Z of equal length; the result always has len(guess) entries, none of
// them VerdictUnset. Positions past the end of secret cannot match exactly.
func Evaluate(secret, guess string) []Verdict {
	n := len(guess)
	res := make([]Verdict, n)

	// Letter counts for the unmatched secret positions (A–Z).
	var pool [26]int

	for i := 0; i < n; i++ {
		if i < len(secret) && guess[i] == secret[i] {
			res[i] = VerdictCorrect
		} else {
			res[i] = VerdictAbsent
		}
	}
	for i := 0; i < len(secret); i++ {
		if i < n && res[i] == VerdictCorrect {
			continue
		}
		if j := idx(secret[i]); j >= 0 {
			pool[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == VerdictCorrect {
			continue
		}
		if j := idx(guess[i]); j >= 0 && pool[j] > 0 {
			res[i] = VerdictPresent
			pool[j]--
		}
	}
	return res
}

// idx maps an uppercase ASCII letter to 0..25, or -1 for anything else.
func idx(b byte) int {
	if b < 'A' || b > 'Z' {
		return -1
	}
	return int(b - 'A')
}

// allCorrect returns true if every verdict is VerdictCorrect.
func allCorrect(v []Verdict) bool {
	for _, x := range v {
		if x != VerdictCorrect {
			return false
		}
	}
	return len(v) > 0
}
