// internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle sessions are closed and dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/wordplay/wordle/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete closes and removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep closes and removes sessions idle for longer than ttl and
	// returns how many were removed.
	Sweep(ctx context.Context, ttl time.Duration) int

	// Len returns the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	clock    quartz.Clock
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store. clock decides what
// "idle" means for Sweep; nil uses the real clock.
func NewMemoryStore(clock quartz.Clock) Store {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &memory{clock: clock, sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[s.ID()]; ok && old != s {
		old.Close()
	}
	m.sessions[s.ID()] = s
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
	return nil
}

func (m *memory) Sweep(_ context.Context, ttl time.Duration) int {
	cutoff := m.clock.Now().Add(-ttl)

	var expired []*game.Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
