package ports

import (
	"context"
)

// StateStore defines the interface for keeping the state tree of a session.
// States are immutable values, a store may keep the reference it is given.
type StateStore interface {
	// Save stores the state for a given session ID.
	Save(ctx context.Context, sessionID string, state any) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (any, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
