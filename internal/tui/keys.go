package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wordplay/wordle/internal/game"
)

type keyMap struct {
	Letter    key.Binding
	Backspace key.Binding
	Submit    key.Binding
	Restart   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Letter: key.NewBinding(
			key.WithKeys("a-z"), // display only; letters are matched in gameKey
			key.WithHelp("a-z", "type"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Restart: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "play again"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Restart, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Letter, k.Backspace, k.Submit},
		{k.Restart, k.Help, k.Quit},
	}
}

// gameKey translates a terminal key press into the key names understood by
// game.Session.HandleKey. ok is false for keys the board does not use.
func gameKey(msg tea.KeyMsg) (name string, ok bool) {
	switch msg.Type {
	case tea.KeyBackspace:
		return game.KeyBackspace, true
	case tea.KeyEnter:
		return game.KeyEnter, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || msg.Alt {
			return "", false
		}
		r := msg.Runes[0]
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return string(r), true
		}
	}
	return "", false
}
