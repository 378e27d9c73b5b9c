package dictcache

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordplay/wordle/internal/words"
)

type countingChecker struct {
	mu    sync.Mutex
	valid map[string]bool
	err   error
	calls map[string]int
}

func (c *countingChecker) IsValidWord(_ context.Context, word string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[word]++
	if c.err != nil {
		return false, c.err
	}
	return c.valid[word], nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache", "dictionary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, zerolog.Nop()))
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db, zerolog.Nop()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestChecker_CachesDefinitiveAnswers(t *testing.T) {
	ctx := context.Background()
	next := &countingChecker{valid: map[string]bool{"APPLE": true}}
	c := New(openTestDB(t), next, zerolog.Nop())

	for i := 0; i < 3; i++ {
		ok, err := c.IsValidWord(ctx, "apple")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.IsValidWord(ctx, "ZZZZZ")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, next.calls["APPLE"])
	assert.Equal(t, 1, next.calls["ZZZZZ"])

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Words: 2, Valid: 1}, st)
}

func TestChecker_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingChecker{err: words.ErrUnavailable}
	c := New(openTestDB(t), next, zerolog.Nop())

	_, err := c.IsValidWord(ctx, "APPLE")
	assert.True(t, errors.Is(err, words.ErrUnavailable))

	next.mu.Lock()
	next.err = nil
	next.valid = map[string]bool{"APPLE": true}
	next.mu.Unlock()

	ok, err := c.IsValidWord(ctx, "APPLE")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, next.calls["APPLE"])
}

func TestChecker_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "dictionary.db")

	db, err := Open(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db, zerolog.Nop()))
	_, err = New(db, &countingChecker{valid: map[string]bool{"TIGER": true}}, zerolog.Nop()).IsValidWord(ctx, "TIGER")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(ctx, db, zerolog.Nop()))

	next := &countingChecker{}
	ok, err := New(db, next, zerolog.Nop()).IsValidWord(ctx, "TIGER")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, next.calls["TIGER"])
}

func TestChecker_RemoteRefusalIsNotCached(t *testing.T) {
	ctx := context.Background()
	var status atomic.Int32
	status.Store(http.StatusForbidden)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c := New(openTestDB(t), words.NewRemoteChecker(srv.URL, time.Second), zerolog.Nop())

	_, err := c.IsValidWord(ctx, "HONEY")
	assert.ErrorIs(t, err, words.ErrUnavailable)

	status.Store(http.StatusOK)
	ok, err := c.IsValidWord(ctx, "HONEY")
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Words: 1, Valid: 1}, st)
}
