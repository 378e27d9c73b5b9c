// internal/game/types.go
//
// Core type definitions for the game session.
// Defines:
//   - Verdict: per-letter result of a scored guess.
//   - Status:  whether the game is still being played.
//   - Cell, Position, Snapshot: grid contents and the client-visible state.

package game

import "time"

// Verdict is the evaluation of one letter of a guess.
//   - "unset":   the row has not been scored yet.
//   - "absent":  letter is not in the secret (or all its copies are used up).
//   - "present": letter is in the secret at a different position.
//   - "correct": letter is in the secret at this position.
type Verdict string

const (
	VerdictUnset   Verdict = "unset"
	VerdictAbsent  Verdict = "absent"
	VerdictPresent Verdict = "present"
	VerdictCorrect Verdict = "correct"
)

// Status is the coarse game state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether the game has ended.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

const (
	// MaxAttempts is the number of rows in the grid.
	MaxAttempts = 5

	MinWordLength = 3
	MaxWordLength = 7

	// ShakeDuration is how long a rejected row stays marked as shaking.
	ShakeDuration = 500 * time.Millisecond

	// NoRow marks the absence of a shaking row.
	NoRow = -1
)

// User-visible messages.
const (
	MsgWon         = "You won!"
	MsgInvalidWord = "Not a valid English word"
	MsgCheckFailed = "Error validating word"
	msgShortFmt    = "Word must be %d letters"
	msgLostFmt     = "Game over! The word was %s"
)

// Cell is one square of the grid. Char is a single uppercase letter or "".
type Cell struct {
	Char    string  `json:"char"`
	Verdict Verdict `json:"verdict"`
}

// Position addresses a cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Snapshot is an immutable copy of everything a client needs to render the game.
// Answer is only filled once the game has ended.
type Snapshot struct {
	ID          string   `json:"id"`
	Generation  uint64   `json:"generation"`
	WordLength  int      `json:"wordLength"`
	MaxAttempts int      `json:"maxAttempts"`
	Rows        [][]Cell `json:"rows"`
	CurrentRow  int      `json:"currentRow"`
	Status      Status   `json:"status"`
	Message     string   `json:"message"`
	ShakeRow    int      `json:"shakeRow"`
	Focus       Position `json:"focus"`
	Loading     bool     `json:"loading"`
	Pending     bool     `json:"pending"`
	Answer      string   `json:"answer,omitempty"`
}

// Writable reports whether row accepts input in this snapshot.
func (s Snapshot) Writable(row int) bool {
	return s.Status == StatusInProgress && row == s.CurrentRow && !s.Pending
}
