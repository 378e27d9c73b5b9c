// internal/words/provider.go
//
// Collaborator contracts for the game session.
// Defines:
//   - Provider: supplies a random secret word of a given length.
//   - Checker:  decides whether a guess is a real word.
//   - Sentinel errors shared by all implementations.
//
// Implementations in this package:
//   - RemoteProvider / RemoteChecker (HTTP APIs, see remote.go)
//   - List (embedded or file-backed word list, see list.go)
// The dictcache package decorates any Checker with a SQLite cache.

package words

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable means the remote service could not give a definitive answer
	// (transport failure, timeout, rate limiting, 5xx).
	ErrUnavailable = errors.New("words: service unavailable")

	// ErrBadWord means a provider returned something that is not a usable secret.
	ErrBadWord = errors.New("words: malformed word")

	// ErrNoWords means no word of the requested length is available.
	ErrNoWords = errors.New("words: no word of requested length")
)

// Provider returns a random word whose length equals length.
type Provider interface {
	FetchRandomWord(ctx context.Context, length int) (string, error)
}

// Checker reports whether word is a valid English word.
// A nil error with false is a definitive "not a word"; transport problems
// are reported as errors wrapping ErrUnavailable.
type Checker interface {
	IsValidWord(ctx context.Context, word string) (bool, error)
}

// Normalize trims and uppercases w and checks it is exactly length letters A–Z.
func Normalize(w string, length int) (string, error) {
	w = strings.ToUpper(strings.TrimSpace(w))
	if len(w) != length || !isAlpha(w) {
		return "", fmt.Errorf("%w: %q (want %d letters)", ErrBadWord, w, length)
	}
	return w, nil
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
