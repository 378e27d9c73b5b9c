// internal/tui/model.go
//
// Terminal front end for a single in-process game session.
//   - Key presses go to Session.HandleKey at the current focus.
//   - Snapshots arrive on the session subscription and are re-rendered.
//   - ctrl+r plays again; esc / ctrl+c quit.

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/wordplay/wordle/internal/game"
)

// Model is the Bubble Tea model for the board.
type Model struct {
	session     *game.Session
	updates     <-chan game.Snapshot
	unsubscribe func()
	log         zerolog.Logger

	snap     game.Snapshot
	keys     keyMap
	help     help.Model
	quitting bool
}

// snapshotMsg carries a new state from the session subscription.
type snapshotMsg game.Snapshot

// closedMsg signals the session was closed.
type closedMsg struct{}

// New creates a model over sess. The session is initialized when the
// program starts.
func New(sess *game.Session, log zerolog.Logger) *Model {
	updates, unsubscribe := sess.Subscribe()
	return &Model{
		session:     sess,
		updates:     updates,
		unsubscribe: unsubscribe,
		log:         log.With().Str("component", "tui").Logger(),
		snap:        sess.Snapshot(),
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
}

// Init starts the first game and begins listening for snapshots.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.restart(), m.listen())
}

// listen waits for the next snapshot from the session.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.updates
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m *Model) restart() tea.Cmd {
	return func() tea.Msg {
		m.session.Initialize(context.Background())
		return nil
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = game.Snapshot(msg)
		return m, m.listen()

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.unsubscribe()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			m.log.Debug().Msg("play again")
			return m, m.restart()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if name, ok := gameKey(msg); ok {
			f := m.snap.Focus
			if m.session.HandleKey(f.Row, f.Col, name) {
				// The session applies keys synchronously; read back the new
				// focus before the next key arrives.
				m.snap = m.session.Snapshot()
			}
		}
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Woordle"))
	b.WriteString("\n\n")

	if m.snap.WordLength == 0 {
		b.WriteString(InfoStyle.Render("Starting..."))
		b.WriteString("\n")
		return b.String()
	}

	for r, row := range m.snap.Rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = m.renderCell(r, c, cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, interleave(cells, " ")...))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.snap.Loading:
		b.WriteString(InfoStyle.Render("Picking a word..."))
	case m.snap.Pending:
		b.WriteString(InfoStyle.Render("Checking..."))
	case m.snap.Status == game.StatusWon:
		b.WriteString(SuccessStyle.Render(m.snap.Message))
	case m.snap.Status == game.StatusLost:
		b.WriteString(ErrorStyle.Render(m.snap.Message))
	case m.snap.Message != "":
		b.WriteString(WarningStyle.Render(m.snap.Message))
	}
	b.WriteString("\n\n")

	if m.snap.Status.Terminal() {
		b.WriteString(InfoStyle.Render("Press ctrl+r to play again"))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderCell(r, c int, cell game.Cell) string {
	ch := cell.Char
	if ch == "" {
		ch = " "
	}
	switch cell.Verdict {
	case game.VerdictCorrect:
		return CorrectCellStyle.Render(ch)
	case game.VerdictPresent:
		return PresentCellStyle.Render(ch)
	case game.VerdictAbsent:
		return AbsentCellStyle.Render(ch)
	}
	if r == m.snap.ShakeRow {
		return ShakeCellStyle.Render(ch)
	}
	if m.snap.Writable(r) && m.snap.Focus == (game.Position{Row: r, Col: c}) {
		return FocusCellStyle.Render(ch)
	}
	return EmptyCellStyle.Render(ch)
}

// interleave puts sep between the elements of parts.
func interleave(parts []string, sep string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
