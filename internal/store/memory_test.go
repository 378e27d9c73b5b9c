package store

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordplay/wordle/internal/game"
	"github.com/wordplay/wordle/internal/words"
)

func newSession(t *testing.T, clock quartz.Clock, id string) *game.Session {
	t.Helper()
	l := words.NewList([]string{"CAT", "FROG", "APPLE", "BANANA", "GIRAFFE"})
	s := game.NewSession(l, l, game.WithClock(clock), game.WithID(id))
	t.Cleanup(s.Close)
	return s
}

func TestMemory_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	st := NewMemoryStore(mClock)

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := newSession(t, mClock, "a")
	require.NoError(t, st.Save(ctx, s))
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(ctx, "a"))
	require.NoError(t, st.Delete(ctx, "a"))
	_, err = st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, st.Len())
}

func TestMemory_SaveReplaceClosesOld(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	st := NewMemoryStore(mClock)

	old := newSession(t, mClock, "a")
	ch, _ := old.Subscribe()
	<-ch
	require.NoError(t, st.Save(ctx, old))
	require.NoError(t, st.Save(ctx, old))

	require.NoError(t, st.Save(ctx, newSession(t, mClock, "a")))
	_, ok := <-ch
	assert.False(t, ok, "replaced session is closed")
	assert.Equal(t, 1, st.Len())
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	st := NewMemoryStore(mClock)

	idle := newSession(t, mClock, "idle")
	busy := newSession(t, mClock, "busy")
	require.NoError(t, st.Save(ctx, idle))
	require.NoError(t, st.Save(ctx, busy))

	mClock.Advance(90 * time.Minute).MustWait(ctx)
	busy.Initialize(ctx)
	require.NoError(t, busy.Wait(ctx))

	mClock.Advance(45 * time.Minute).MustWait(ctx)
	assert.Equal(t, 1, st.Sweep(ctx, 2*time.Hour))

	_, err := st.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, "busy")
	assert.NoError(t, err)

	assert.Zero(t, st.Sweep(ctx, 2*time.Hour))
}
