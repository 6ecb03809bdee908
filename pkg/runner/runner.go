package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/actionpack/pkg/adapters/memory"
	"github.com/aretw0/actionpack/pkg/composable"
	"github.com/aretw0/actionpack/pkg/domain"
	"github.com/aretw0/actionpack/pkg/ports"
	"github.com/aretw0/actionpack/pkg/session"
)

// ErrDispatchDepth is returned when effects nest dispatches deeper than MaxDepth.
var ErrDispatchDepth = errors.New("dispatch depth exceeded")

// Actions resolves action names. Both *actionpack.Pack and *actionpack.Session
// implement it.
type Actions interface {
	Act(name string, props any) (domain.ActionRef, error)
}

// Runner owns the state of one session and acts as the dispatcher for the
// effects emitted by its actions.
type Runner struct {
	actions Actions

	// Store keeps the session state. Defaults to an in-memory store.
	Store ports.StateStore

	// Effects performs effect descriptors. Defaults to ports.PerformEffects.
	Effects ports.EffectRunner

	// Logger is used for debug logging. If nil, a no-op logger is used.
	Logger *slog.Logger

	SessionID string
	MaxDepth  int

	sessions *session.Manager
}

// NewRunner creates a Runner dispatching the actions resolved by actions.
func NewRunner(actions Actions, opts ...Option) *Runner {
	r := &Runner{
		actions:   actions,
		Store:     memory.NewStore(),
		Effects:   ports.PerformEffects,
		Logger:    slog.New(slog.DiscardHandler),
		SessionID: DefaultSessionID,
		MaxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sessions = session.NewManager(r.Store, session.WithLogger(r.Logger))
	return r
}

// Seed stores state as the session's current state.
func (r *Runner) Seed(ctx context.Context, state any) error {
	return r.sessions.Save(ctx, r.SessionID, state)
}

// State returns the session's current state, nil if none was stored yet.
func (r *Runner) State(ctx context.Context) (any, error) {
	return r.sessions.Load(ctx, r.SessionID)
}

// Run resolves name and dispatches it with props.
func (r *Runner) Run(ctx context.Context, name string, props any) error {
	ref, err := r.actions.Act(name, props)
	if err != nil {
		return err
	}
	return r.Dispatch(ctx, ref)
}

// Dispatch applies ref to the session state, stores the next state and then
// performs the emitted effects in order. Effects run after the state is
// stored, so a chained dispatch sees it. Concurrent dispatches on the same
// session are serialised; their effects are not.
func (r *Runner) Dispatch(ctx context.Context, ref domain.ActionRef) error {
	return r.dispatch(ctx, ref, 0)
}

func (r *Runner) dispatch(ctx context.Context, ref domain.ActionRef, depth int) error {
	if depth > r.MaxDepth {
		return fmt.Errorf("%w: %q at depth %d", ErrDispatchDepth, ref.Name(), depth)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if ref.Callback == nil {
		return fmt.Errorf("dispatch: %w", domain.ErrUndeclaredAction)
	}

	var out domain.Outcome
	err := r.sessions.Update(ctx, r.SessionID, func(state any) (any, error) {
		if err := composable.Recover(func() {
			out = ref.Callback.Apply(state, ref.Props)
		}); err != nil {
			return nil, fmt.Errorf("action %q: %w", ref.Name(), err)
		}
		return out.State, nil
	})
	if err != nil {
		return err
	}
	r.Logger.Debug("dispatched", "action", ref.Name(), "session", r.SessionID, "effects", len(out.Effects), "depth", depth)

	dispatch := func(next domain.ActionRef) error {
		return r.dispatch(ctx, next, depth+1)
	}
	for _, fx := range out.Effects {
		r.Logger.Debug("performing effect", "effect", fx.Name, "kind", fx.Kind.String(), "action", ref.Name())
		if err := r.Effects.RunEffect(ctx, fx, dispatch); err != nil {
			return fmt.Errorf("effect %q of %q: %w", fx.Name, ref.Name(), err)
		}
	}
	return nil
}
