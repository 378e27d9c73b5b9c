// internal/words/list.go
//
// Word list used for offline play and as a local dictionary.
//
// Responsibilities:
//   - Load words from a file (one per line) or fall back to the embedded list.
//   - Index words by length for random picks, keep a set for lookups.
//   - Serve as both a Provider and a Checker.
//
// Constraints:
//   • Only alphabetic words of 3–7 letters are kept.
//   • Lists are normalized to uppercase.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/wordplay/wordle/assets"
)

const (
	minListLength = 3
	maxListLength = 7
)

// List is an in-memory word list. It is immutable after construction and
// safe for concurrent use.
type List struct {
	byLength map[int][]string
	set      map[string]struct{}
}

// NewList builds a List from raw words, dropping anything unusable.
func NewList(raw []string) *List {
	l := &List{
		byLength: make(map[int][]string),
		set:      make(map[string]struct{}, len(raw)),
	}
	for _, w := range raw {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) < minListLength || len(w) > maxListLength || !isAlpha(w) {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.byLength[len(w)] = append(l.byLength[len(w)], w)
	}
	return l
}

// LoadList reads path when set, otherwise the embedded default list.
// It returns an error if the resulting list is empty.
func LoadList(path string) (*List, error) {
	var raw []string
	var err error
	if path != "" {
		raw, err = readWordFile(path)
	} else {
		raw, err = assets.WordList()
	}
	if err != nil {
		return nil, err
	}
	l := NewList(raw)
	if len(l.set) == 0 {
		return nil, errors.New("words: list is empty")
	}
	return l, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// FetchRandomWord returns a cryptographically random word of the given length.
func (l *List) FetchRandomWord(_ context.Context, length int) (string, error) {
	candidates := l.byLength[length]
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %d", ErrNoWords, length)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		return "", err
	}
	return candidates[n.Int64()], nil
}

// IsValidWord reports whether word is in the list.
func (l *List) IsValidWord(_ context.Context, word string) (bool, error) {
	_, ok := l.set[strings.ToUpper(word)]
	return ok, nil
}

// Stats returns the number of words per length.
func (l *List) Stats() map[int]int {
	out := make(map[int]int, len(l.byLength))
	for n, ws := range l.byLength {
		out[n] = len(ws)
	}
	return out
}
