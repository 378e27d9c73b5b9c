// internal/dictcache/cache.go
//
// SQLite-backed cache in front of a words.Checker.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Answering IsValidWord from the cache, asking the wrapped checker on a miss.
//
// Only definitive answers (valid / not a word) are cached. Errors from the
// wrapped checker pass through untouched so the next attempt asks again.

package dictcache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wordplay/wordle/internal/telemetry"
	"github.com/wordplay/wordle/internal/words"
)

//go:embed sql/*.sql
var migrations embed.FS

// Open opens (and creates if missing) a SQLite database file.
// The parent directory is created when needed.
func Open(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations in lexical order, skipping those
// already recorded in _migrations. Each file runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		name := path.Base(f)

		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("applied")
	}
	return nil
}

// Checker answers IsValidWord from the cache and falls through to next.
type Checker struct {
	db   *sql.DB
	next words.Checker
	log  zerolog.Logger
	now  func() time.Time
}

// New wraps next with the cache stored in db. db must be migrated.
func New(db *sql.DB, next words.Checker, log zerolog.Logger) *Checker {
	return &Checker{db: db, next: next, log: log, now: time.Now}
}

// IsValidWord implements words.Checker.
func (c *Checker) IsValidWord(ctx context.Context, word string) (bool, error) {
	ctx, span := telemetry.Tracer("dictcache").Start(ctx, "dictcache.check")
	defer span.End()

	word = strings.ToUpper(strings.TrimSpace(word))

	var valid bool
	err := c.db.QueryRowContext(ctx, `SELECT valid FROM dictionary WHERE word=?`, word).Scan(&valid)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return valid, nil
	case !errors.Is(err, sql.ErrNoRows):
		// A broken cache must not break the game.
		c.log.Warn().Err(err).Msg("dictionary cache read")
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	valid, err = c.next.IsValidWord(ctx, word)
	if err != nil {
		return false, err
	}

	if _, err := c.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO dictionary (word, valid, checked_at)
        VALUES (?, ?, ?)`,
		word, valid, c.now().UTC().Format(time.RFC3339),
	); err != nil {
		c.log.Warn().Err(err).Str("word", word).Msg("dictionary cache write")
	}
	return valid, nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Words int `json:"words"`
	Valid int `json:"valid"`
}

// Stats counts cached words and how many of them are valid.
func (c *Checker) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(valid), 0) FROM dictionary`,
	).Scan(&st.Words, &st.Valid)
	return st, err
}
