package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/wordplay/wordle/internal/config"
	"github.com/wordplay/wordle/internal/game"
	"github.com/wordplay/wordle/internal/httpserver"
	"github.com/wordplay/wordle/internal/store"
	"github.com/wordplay/wordle/internal/telemetry"
)

// sweepInterval is how often idle sessions are looked for.
const sweepInterval = time.Minute

// ServeCmd runs the HTTP server.
type ServeCmd struct {
	Addr    string `help:"Listen address (overrides server.addr)"`
	Offline bool   `help:"Use the bundled word list instead of the remote services"`
	NoCache bool   `help:"Disable the dictionary lookup cache"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.Offline {
		cfg.Mode = config.ModeOffline
	}
	if c.NoCache {
		cfg.CacheEnabled = false
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	log, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	if cfg.InsecureSecret() {
		log.Warn().
			Str("client_origin", cfg.ClientOrigin).
			Msg("using the built-in development session secret; set SESSION_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	collab, err := openCollaborators(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer collab.Close()

	clock := quartz.NewReal()
	st := store.NewMemoryStore(clock)
	sessions := func() *game.Session {
		return game.NewSession(collab.provider, collab.checker, game.WithLogger(log))
	}
	srv := httpserver.New(st, sessions, httpserver.Options{
		ClientOrigin:  cfg.ClientOrigin,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
	}, log)

	log.Info().
		Str("addr", cfg.Addr).
		Str("mode", cfg.Mode).
		Bool("dict_cache", cfg.CacheEnabled).
		Dur("session_ttl", cfg.SessionTTL).
		Bool("tracing", telemetry.Enabled()).
		Msg("starting wordle server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx, cfg.Addr)
	})
	g.Go(func() error {
		sweeper := clock.TickerFunc(gctx, sweepInterval, func() error {
			if n := st.Sweep(gctx, cfg.SessionTTL); n > 0 {
				log.Info().Int("expired", n).Int("live", st.Len()).Msg("swept idle sessions")
			}
			return nil
		}, "sweep")
		if err := sweeper.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	err = g.Wait()
	log.Info().Msg("wordle server stopped")
	return err
}
