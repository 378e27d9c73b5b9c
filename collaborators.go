package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wordplay/wordle/internal/config"
	"github.com/wordplay/wordle/internal/dictcache"
	"github.com/wordplay/wordle/internal/words"
)

// collaborators is the word source and dictionary a session is built with.
type collaborators struct {
	provider words.Provider
	checker  words.Checker
	db       *sql.DB
}

// openCollaborators picks the word source and dictionary for cfg.Mode and,
// when enabled, puts the SQLite lookup cache in front of the dictionary.
func openCollaborators(ctx context.Context, cfg config.Config, log zerolog.Logger) (*collaborators, error) {
	c := &collaborators{}

	switch cfg.Mode {
	case config.ModeOffline:
		list, err := words.LoadList(cfg.WordsFile)
		if err != nil {
			return nil, fmt.Errorf("load word list: %w", err)
		}
		log.Info().Interface("words_by_length", list.Stats()).Msg("offline word list loaded")
		c.provider, c.checker = list, list
		// Local lookups are already cheap.
		return c, nil

	default:
		c.provider = words.NewRemoteProvider(cfg.RandomWordURL, cfg.ProviderTimeout)
		c.checker = words.NewRemoteChecker(cfg.DictionaryURL, cfg.ProviderTimeout)
		log.Info().
			Str("random_word_url", cfg.RandomWordURL).
			Str("dictionary_url", cfg.DictionaryURL).
			Dur("timeout", cfg.ProviderTimeout).
			Msg("using remote word services")
	}

	if !cfg.CacheEnabled {
		return c, nil
	}

	db, err := dictcache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open dictionary cache: %w", err)
	}
	if err := dictcache.Migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate dictionary cache: %w", err)
	}
	cache := dictcache.New(db, c.checker, log)
	if st, err := cache.Stats(ctx); err == nil {
		log.Info().Str("path", cfg.CachePath).Int("words", st.Words).Int("valid", st.Valid).Msg("dictionary cache ready")
	}
	c.checker, c.db = cache, db
	return c, nil
}

func (c *collaborators) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
