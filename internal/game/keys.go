package game

// Key names recognised by HandleKey besides single letters.
const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// HandleKey dispatches a keyboard event that occurred on cell (row, col).
// It returns true when the key was consumed (a single ASCII letter,
// Backspace or Enter) and false for anything else, so callers can let
// unhandled keys keep their default behavior.
func (s *Session) HandleKey(row, col int, key string) bool {
	switch key {
	case KeyBackspace:
		s.HandleBackspace(row, col)
		return true
	case KeyEnter:
		s.HandleSubmit(row, col)
		return true
	}
	if r, ok := letterKey(key); ok {
		s.HandleCharacterInput(row, col, r)
		return true
	}
	return false
}

func letterKey(key string) (rune, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := rune(key[0])
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 'A', true
	case c >= 'A' && c <= 'Z':
		return c, true
	}
	return 0, false
}
