package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/actionpack/internal/logging"
	"github.com/aretw0/actionpack/pkg/domain"
	"github.com/aretw0/actionpack/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by session ID

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves the state of a session. A session that was never saved
// has a nil state.
func (m *Manager) Load(ctx context.Context, sessionID string) (any, error) {
	var state any
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.load(ctx, sessionID)
		return err
	})
	return state, err
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, sessionID string, state any) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Update loads the session state, passes it to fn and saves what fn returns,
// holding the session lock throughout. Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(state any) (any, error)) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session %q: %w", sessionID, err)
		}
		next, err := fn(state)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session %q: %w", sessionID, err)
		}
		m.logger.Debug("session updated", "session_id", sessionID)
		return nil
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
// The lock is not reentrant.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, sessionID string) (any, error) {
	state, err := m.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	return state, err
}
