package runner

import (
	"log/slog"

	"github.com/aretw0/actionpack/pkg/ports"
)

// DefaultMaxDepth bounds how deep andThen chains may nest.
const DefaultMaxDepth = 32

// DefaultSessionID is used when no session ID is configured.
const DefaultSessionID = "default"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the StateStore holding session state.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithSessionID sets the session whose state the runner drives.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithEffectRunner configures the strategy for executing effects.
func WithEffectRunner(er ports.EffectRunner) Option {
	return func(r *Runner) {
		r.Effects = er
	}
}

// WithMaxDepth bounds nested dispatches triggered by effects.
func WithMaxDepth(depth int) Option {
	return func(r *Runner) {
		r.MaxDepth = depth
	}
}
