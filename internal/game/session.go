// internal/game/session.go
//
// Session is the game controller for a single player.
// Responsibilities:
//   - Start and restart games: pick a word length, fetch the secret word
//     (falling back to the built-in table), reset the grid.
//   - Accept letter, backspace and submit events for the current row only.
//   - Validate submitted words through the Checker and score them with Evaluate.
//   - Track state transitions: in_progress → won/lost.
//   - Drive the transient shake indicator with a re-armed one-shot timer.
//   - Publish snapshots to subscribers after every change.
//
// Concurrency:
//   - All state is guarded by mu. Word fetches and validity checks run on
//     their own goroutines and re-acquire mu to apply results.
//   - Each Initialize bumps the generation and cancels the previous
//     generation's context; results tagged with an older generation are dropped.
//   - While a validity check is pending the current row is frozen.

package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wordplay/wordle/internal/words"
)

// Session holds the state of one player's game across restarts.
type Session struct {
	id      string
	words   words.Provider
	checker words.Checker
	clock   quartz.Clock
	log     zerolog.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	gen        uint64
	genCtx     context.Context
	cancel     context.CancelFunc
	secret     string // uppercase; "" while loading
	length     int
	grid       [][]Cell
	row        int
	status     Status
	message    string
	shakeRow   int
	shakeSeq   uint64
	shakeTimer *quartz.Timer
	focus      Position
	loading    bool
	pending    bool
	closed     bool
	lastActive time.Time

	inflight int
	idle     chan struct{}

	subs    map[int]chan Snapshot
	nextSub int
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for the shake timer and activity tracking.
func WithClock(c quartz.Clock) Option { return func(s *Session) { s.clock = c } }

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// WithRand sets the random source for word length and fallback picks.
func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

// WithID overrides the generated session id.
func WithID(id string) Option { return func(s *Session) { s.id = id } }

// NewSession constructs an idle session. Call Initialize to start a game.
func NewSession(p words.Provider, c words.Checker, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		words:    p,
		checker:  c,
		clock:    quartz.NewReal(),
		log:      zerolog.Nop(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		status:   StatusInProgress,
		shakeRow: NoRow,
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	s.lastActive = s.clock.Now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Initialize starts a new game, discarding all previous state. The secret
// word is fetched in the background; Snapshot.Loading is true until it arrives.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.genCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	genCtx := s.genCtx

	length := MinWordLength + s.rng.IntN(MaxWordLength-MinWordLength+1)
	s.length = length
	s.secret = ""
	s.grid = newGrid(MaxAttempts, length)
	s.row = 0
	s.status = StatusInProgress
	s.message = ""
	s.stopShakeLocked()
	s.focus = Position{}
	s.loading = true
	s.pending = false
	s.touchLocked()
	s.beginLocked()
	s.mu.Unlock()

	s.log.Debug().Uint64("generation", gen).Int("length", length).Msg("new game")
	s.notify()
	go s.loadSecret(genCtx, gen, length)
}

func (s *Session) loadSecret(ctx context.Context, gen uint64, length int) {
	defer s.end()

	word, err := s.words.FetchRandomWord(ctx, length)
	if err == nil {
		word, err = words.Normalize(word, length)
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.log.Debug().Uint64("generation", gen).Msg("dropping stale secret word")
		return
	}
	fallback := false
	if err != nil {
		word, fallback = words.Fallback(length, s.rng)
	}
	s.secret = word
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Int("length", length).Bool("fallback", fallback).Msg("word provider failed")
	}
	s.notify()
}

// HandleCharacterInput writes letter into (row, col) when row is the current
// row of a running game, then moves focus one cell right unless col is last.
func (s *Session) HandleCharacterInput(row, col int, letter rune) {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return
	}

	s.mu.Lock()
	if !s.writableLocked(row, col) {
		s.mu.Unlock()
		return
	}
	s.grid[row][col].Char = string(letter)
	s.focus = Position{Row: row, Col: col}
	if col < s.length-1 {
		s.focus.Col = col + 1
	}
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// HandleBackspace clears (row, col) under the same guard and moves focus left.
func (s *Session) HandleBackspace(row, col int) {
	s.mu.Lock()
	if !s.writableLocked(row, col) {
		s.mu.Unlock()
		return
	}
	s.grid[row][col].Char = ""
	s.focus = Position{Row: row, Col: col}
	if col > 0 {
		s.focus.Col = col - 1
	}
	s.touchLocked()
	s.mu.Unlock()
	s.notify()
}

// HandleSubmit submits the current row. It only acts at the last column of
// the current row, and not before the secret word has loaded. A short row is
// rejected immediately; a full row is validated in the background.
func (s *Session) HandleSubmit(row, col int) {
	s.mu.Lock()
	if !s.writableLocked(row, col) || col != s.length-1 || s.loading {
		s.mu.Unlock()
		return
	}
	s.touchLocked()

	guess := s.rowWordLocked(row)
	if len(guess) < s.length {
		s.message = fmt.Sprintf(msgShortFmt, s.length)
		s.shakeLocked(row)
		s.mu.Unlock()
		s.notify()
		return
	}

	s.pending = true
	gen, ctx := s.gen, s.genCtx
	s.beginLocked()
	s.mu.Unlock()

	s.notify()
	go s.checkGuess(ctx, gen, row, guess)
}

func (s *Session) checkGuess(ctx context.Context, gen uint64, row int, guess string) {
	defer s.end()

	valid, err := s.checker.IsValidWord(ctx, guess)

	s.mu.Lock()
	if gen != s.gen || s.status != StatusInProgress || row != s.row {
		s.mu.Unlock()
		s.log.Debug().Uint64("generation", gen).Int("row", row).Msg("dropping stale validity result")
		return
	}
	s.pending = false
	switch {
	case err != nil:
		s.message = MsgCheckFailed
		s.shakeLocked(row)
	case !valid:
		s.message = MsgInvalidWord
		s.shakeLocked(row)
	default:
		s.scoreLocked(row, guess)
	}
	status := s.status
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Int("row", row).Msg("word validation failed")
	} else if status.Terminal() {
		s.log.Debug().Str("status", string(status)).Int("row", row).Msg("game over")
	}
	s.notify()
}

// scoreLocked colors row and advances or ends the game.
func (s *Session) scoreLocked(row int, guess string) {
	verdicts := Evaluate(s.secret, guess)
	for i, v := range verdicts {
		s.grid[row][i].Verdict = v
	}
	s.message = ""

	switch {
	case allCorrect(verdicts):
		s.status = StatusWon
		s.message = MsgWon
	case row == MaxAttempts-1:
		s.status = StatusLost
		s.message = fmt.Sprintf(msgLostFmt, s.secret)
	default:
		s.row++
		s.focus = Position{Row: s.row, Col: 0}
	}
}

// writableLocked reports whether (row, col) accepts edits right now.
func (s *Session) writableLocked(row, col int) bool {
	return !s.closed &&
		s.status == StatusInProgress &&
		!s.pending &&
		s.grid != nil &&
		row == s.row &&
		col >= 0 && col < s.length
}

// rowWordLocked joins the non-empty characters of row.
func (s *Session) rowWordLocked(row int) string {
	var b strings.Builder
	for _, c := range s.grid[row] {
		b.WriteString(c.Char)
	}
	return b.String()
}

// ---------------------------------------------------------------- shake ---

// shakeLocked marks row as shaking and re-arms the clear timer. Any earlier
// timer is stopped, and the sequence number stops a late firing from
// clearing a newer shake.
func (s *Session) shakeLocked(row int) {
	if s.shakeTimer != nil {
		s.shakeTimer.Stop()
	}
	s.shakeSeq++
	seq := s.shakeSeq
	s.shakeRow = row
	s.shakeTimer = s.clock.AfterFunc(ShakeDuration, func() { s.clearShake(seq) }, "shake")
}

func (s *Session) stopShakeLocked() {
	if s.shakeTimer != nil {
		s.shakeTimer.Stop()
		s.shakeTimer = nil
	}
	s.shakeSeq++
	s.shakeRow = NoRow
}

func (s *Session) clearShake(seq uint64) {
	s.mu.Lock()
	if seq != s.shakeSeq || s.shakeRow == NoRow {
		s.mu.Unlock()
		return
	}
	s.shakeRow = NoRow
	s.shakeTimer = nil
	s.mu.Unlock()
	s.notify()
}

// ------------------------------------------------------------- in-flight ---

func (s *Session) beginLocked() {
	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}
	s.inflight++
}

func (s *Session) end() {
	s.mu.Lock()
	s.inflight--
	if s.inflight == 0 {
		close(s.idle)
	}
	s.mu.Unlock()
}

// Wait blocks until no word fetch or validity check is in flight, or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	if s.inflight == 0 {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ------------------------------------------------------------- snapshots ---

// Snapshot returns a copy of the client-visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	rows := make([][]Cell, len(s.grid))
	for i, r := range s.grid {
		rows[i] = append([]Cell(nil), r...)
	}
	snap := Snapshot{
		ID:          s.id,
		Generation:  s.gen,
		WordLength:  s.length,
		MaxAttempts: MaxAttempts,
		Rows:        rows,
		CurrentRow:  s.row,
		Status:      s.status,
		Message:     s.message,
		ShakeRow:    s.shakeRow,
		Focus:       s.focus,
		Loading:     s.loading,
		Pending:     s.pending,
	}
	if s.status.Terminal() {
		snap.Answer = s.secret
	}
	return snap
}

// Subscribe returns a channel that always holds the most recent snapshot not
// yet received, starting with the current one, and a func that unsubscribes
// and closes the channel.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.closed {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// notify pushes the current snapshot to every subscriber, replacing any
// snapshot the subscriber has not read yet.
func (s *Session) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// ------------------------------------------------------------- lifecycle ---

// LastActive returns the time of the last player action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touchLocked() { s.lastActive = s.clock.Now() }

// Close cancels in-flight requests, stops the shake timer and closes all
// subscriptions. A closed session cannot be re-initialized.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.stopShakeLocked()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func newGrid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = make([]Cell, cols)
		for j := range g[i] {
			g[i][j] = Cell{Verdict: VerdictUnset}
		}
	}
	return g
}
