package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/actionpack/pkg/domain"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use. States are immutable trees, so the store keeps the
// references it is given without copying.
type Store struct {
	data map[string]any
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]any),
	}
}

// Save keeps the state in memory.
func (s *Store) Save(ctx context.Context, sessionID string, state any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = state
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state, nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	slices.Sort(sessions)
	return sessions, nil
}
