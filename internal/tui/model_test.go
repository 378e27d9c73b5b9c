package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordplay/wordle/internal/game"
	"github.com/wordplay/wordle/internal/words"
)

func newTestModel(t *testing.T) (*Model, *game.Session) {
	t.Helper()
	l := words.NewList([]string{"CAT", "FROG", "APPLE", "BANANA", "GIRAFFE"})
	sess := game.NewSession(l, l)
	t.Cleanup(sess.Close)

	m := New(sess, zerolog.Nop())
	sess.Initialize(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sess.Wait(ctx))
	m.snap = sess.Snapshot()
	return m, sess
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGameKey(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{runes("a"), "a", true},
		{runes("Q"), "Q", true},
		{tea.KeyMsg{Type: tea.KeyBackspace}, game.KeyBackspace, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, game.KeyEnter, true},
		{runes("1"), "", false},
		{runes("ab"), "", false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true}, "", false},
		{tea.KeyMsg{Type: tea.KeyTab}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			got, ok := gameKey(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModel_TypingFollowsFocus(t *testing.T) {
	m, sess := newTestModel(t)

	m.Update(runes("x"))
	m.Update(runes("y"))

	snap := sess.Snapshot()
	assert.Equal(t, "X", snap.Rows[0][0].Char)
	assert.Equal(t, "Y", snap.Rows[0][1].Char)
	assert.Equal(t, snap.Focus, m.snap.Focus)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, sess.Snapshot().Rows[0][2].Char)
	assert.Equal(t, game.Position{Row: 0, Col: 1}, sess.Snapshot().Focus)
}

func TestModel_TypingAheadOfSnapshots(t *testing.T) {
	m, sess := newTestModel(t)
	n := sess.Snapshot().WordLength
	word := strings.Repeat("ab", game.MaxWordLength)[:n]

	for _, r := range word {
		m.Update(runes(string(r)))
	}

	row := sess.Snapshot().Rows[0]
	for i, r := range strings.ToUpper(word) {
		assert.Equal(t, string(r), row[i].Char, "cell %d", i)
	}
	assert.Equal(t, game.Position{Row: 0, Col: n - 1}, m.snap.Focus)
}

func TestModel_SnapshotMsg(t *testing.T) {
	m, sess := newTestModel(t)
	sess.HandleCharacterInput(0, 0, 'Q')

	_, cmd := m.Update(snapshotMsg(sess.Snapshot()))
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, "Q", m.snap.Rows[0][0].Char)
	assert.Contains(t, m.View(), "Q")
}

func TestModel_ViewMessages(t *testing.T) {
	m, _ := newTestModel(t)

	m.snap.Status = game.StatusLost
	m.snap.Message = "Game over! The word was APPLE"
	view := m.View()
	assert.Contains(t, view, "Game over! The word was APPLE")
	assert.Contains(t, view, "ctrl+r")

	m.snap.Status = game.StatusInProgress
	m.snap.Pending = true
	assert.Contains(t, m.View(), "Checking...")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	drained := make(chan struct{})
	go func() {
		for range m.updates {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("subscription still open after quit")
	}
}

func TestModel_ClosedSessionQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(closedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
