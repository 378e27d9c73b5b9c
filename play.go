package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wordplay/wordle/internal/config"
	"github.com/wordplay/wordle/internal/game"
	"github.com/wordplay/wordle/internal/tui"
)

// PlayCmd runs a single session in the terminal.
type PlayCmd struct {
	Offline bool   `help:"Use the bundled word list instead of the remote services"`
	LogFile string `type:"path" help:"Log file (default: $XDG_STATE_HOME/wordle/play.log)"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Offline {
		cfg.Mode = config.ModeOffline
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	// The terminal belongs to the board, so logs go to a file.
	path := c.LogFile
	if path == "" {
		path, err = xdg.StateFile(filepath.Join("wordle", "play.log"))
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	log, err := newLogger(f, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx := context.Background()
	collab, err := openCollaborators(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer collab.Close()

	sess := game.NewSession(collab.provider, collab.checker, game.WithLogger(log))
	defer sess.Close()

	log.Info().Str("session", sess.ID()).Str("mode", cfg.Mode).Msg("terminal game started")
	_, err = tea.NewProgram(tui.New(sess, log), tea.WithAltScreen()).Run()
	return err
}
