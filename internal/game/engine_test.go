package game

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	const (
		A = VerdictAbsent
		P = VerdictPresent
		C = VerdictCorrect
	)
	tests := []struct {
		name   string
		secret string
		guess  string
		want   []Verdict
	}{
		{"all correct", "APPLE", "APPLE", []Verdict{C, C, C, C, C}},
		{"nothing shared", "DOG", "CAT", []Verdict{A, A, A}},
		{"anagram", "APPLE", "PAPER", []Verdict{P, P, C, P, A}},
		{"duplicate guessed once in secret", "ABBEY", "BOBBY", []Verdict{P, A, C, A, C}},
		{"exact match consumes before present", "CAT", "TTT", []Verdict{A, A, C}},
		{"repeated present letters", "LEVEL", "EELLS", []Verdict{P, C, P, P, A}},
		{"seven letters", "GIRAFFE", "FIGFEAR", []Verdict{P, C, P, P, P, P, P}},
		{"guess longer than secret", "CAT", "CATS", []Verdict{C, C, C, A}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.secret, tt.guess)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate(%q, %q) mismatch (-want +got):\n%s", tt.secret, tt.guess, diff)
			}
		})
	}
}

// Marked letters never outnumber the secret's copies of that letter, and
// only identical words score all correct.
func TestEvaluateLetterBudget(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	randWord := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(byte('A' + rng.IntN(4))) // small alphabet forces duplicates
		}
		return b.String()
	}

	for i := 0; i < 2000; i++ {
		n := MinWordLength + rng.IntN(MaxWordLength-MinWordLength+1)
		secret, guess := randWord(n), randWord(n)
		got := Evaluate(secret, guess)

		assert.Len(t, got, n)
		marked := map[byte]int{}
		for j, v := range got {
			assert.NotEqual(t, VerdictUnset, v)
			if v == VerdictCorrect {
				assert.Equal(t, secret[j], guess[j])
			}
			if v != VerdictAbsent {
				marked[guess[j]]++
			}
		}
		for letter, count := range marked {
			assert.LessOrEqual(t, count, strings.Count(secret, string(letter)),
				"secret %s guess %s letter %c", secret, guess, letter)
		}
		assert.Equal(t, secret == guess, allCorrect(got), "secret %s guess %s", secret, guess)
	}
}
