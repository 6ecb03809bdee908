package actionpack

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/actionpack/pkg/composable"
	"github.com/aretw0/actionpack/pkg/domain"
	"github.com/aretw0/actionpack/pkg/observability"
	"github.com/aretw0/actionpack/pkg/registry"
)

// ErrNilHandler is returned when declaring an action without a handler.
var ErrNilHandler = errors.New("nil handler")

// Pack is the action registry and dispatcher. The zero value is not usable,
// create one with New.
type Pack struct {
	actions *registry.Registry[*Action]
	sink    observability.Sink
	hooks   domain.LifecycleHooks
}

// Option defines a functional option for configuring a Pack.
type Option func(*Pack)

// WithSink sets the diagnostic sink dispatch cycles report to.
func WithSink(sink observability.Sink) Option {
	return func(p *Pack) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithLogger reports dispatch cycles to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return WithSink(observability.NewSlogSink(logger))
}

// WithHooks registers lifecycle hooks. Repeated calls chain the hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pack) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// New creates an empty Pack.
func New(opts ...Option) *Pack {
	p := &Pack{
		actions: registry.New[*Action](),
		sink:    observability.Nop,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Declare registers handler under name and returns its callback.
// Declaring a name twice fails with domain.ErrDuplicateDeclaration and leaves
// the first declaration in place.
func (p *Pack) Declare(name string, handler domain.Handler) (*Action, error) {
	if handler == nil {
		return nil, &domain.DeclarationError{Name: name, Err: ErrNilHandler}
	}

	a := &Action{name: name, handler: handler, pack: p}
	if err := p.actions.Register(name, a); err != nil {
		return nil, err
	}

	if p.hooks.OnDeclare != nil {
		p.hooks.OnDeclare(&domain.DeclareEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDeclare},
			Action:    name,
		})
	}
	return a, nil
}

// MustDeclare is like Declare but panics on error.
func (p *Pack) MustDeclare(name string, handler domain.Handler) *Action {
	a, err := p.Declare(name, handler)
	if err != nil {
		panic(err)
	}
	return a
}

// Callback returns the callback declared under name. Repeated calls return the
// same *Action.
func (p *Pack) Callback(name string) (*Action, error) {
	return p.actions.Lookup(name)
}

// Act pairs the callback for name with props without running it.
func (p *Pack) Act(name string, props any) (domain.ActionRef, error) {
	a, err := p.Callback(name)
	if err != nil {
		return domain.ActionRef{}, err
	}
	return domain.ActionRef{Callback: a, Props: props}, nil
}

// Run dispatches name with props against state.
func (p *Pack) Run(name string, props, state any) (domain.Outcome, error) {
	a, err := p.Callback(name)
	if err != nil {
		return domain.Outcome{}, err
	}
	p.sink.Log("run", "action", name)
	return a.Apply(state, props), nil
}

// AndThen builds an effect asking the host to dispatch name with props later.
func (p *Pack) AndThen(name string, props any) (domain.Effect, error) {
	ref, err := p.Act(name, props)
	if err != nil {
		return domain.Effect{}, err
	}
	return domain.AndThen(ref), nil
}

// WithMiddleware starts a Session with middleware queued.
func (p *Pack) WithMiddleware(middleware ...domain.Middleware) *Session {
	return newSession(p, slices.Clone(middleware))
}

// Names lists declared actions in declaration order.
func (p *Pack) Names() []string {
	return p.actions.Names()
}

// cycle runs one dispatch: middleware transformations in queue order, then the
// handler's own mutation, all applied to state in a single fold.
func (p *Pack) cycle(a *Action, middleware []domain.Middleware, state, props any) domain.Outcome {
	start := time.Now()
	cycleID := uuid.NewString()

	sink := observability.ForCycle(p.sink)
	sink.GroupCollapsed("actionpack.run", "action", a.name, "cycle", cycleID)
	defer sink.GroupEnd()

	sink.Log("middleware", "count", len(middleware))
	sink.Log("state", "value", state)
	sink.Log("props", "value", props)

	res := a.handler(props, state)
	effects := slices.Clone(res.Effects)
	sink.Log("mutations", "type", fmt.Sprintf("%T", res.Mutation))
	sink.Log("effects", "count", len(effects), "names", effectNames(effects))

	steps := make([]composable.Action, 0, len(middleware)+1)
	for _, mw := range middleware {
		if t := mw(props); t != nil {
			steps = append(steps, t)
		}
	}
	if res.Mutation != nil {
		steps = append(steps, res.Mutation)
	}
	next := composable.Composable(state, composable.Collect(steps...))
	sink.Log("computed state", "value", next)

	if p.hooks.OnDispatch != nil {
		p.hooks.OnDispatch(&domain.DispatchEvent{
			EventBase:  domain.EventBase{Timestamp: start, Type: domain.EventDispatch},
			CycleID:    cycleID,
			Action:     a.name,
			Middleware: len(middleware),
			Effects:    len(effects),
			Duration:   time.Since(start),
		})
	}

	return domain.Outcome{State: next, Effects: effects}
}

func effectNames(effects []domain.Effect) []string {
	names := make([]string, len(effects))
	for i, fx := range effects {
		names[i] = fx.Name
	}
	return names
}

// Action is a declared handler bound to its name. It implements
// domain.Callback; compare callbacks by pointer.
type Action struct {
	name    string
	handler domain.Handler
	pack    *Pack
	session *Session
}

// Name returns the declared name.
func (a *Action) Name() string {
	return a.name
}

// Apply runs one dispatch cycle against state. A callback obtained from a
// Session consumes the session's middleware on its first Apply that
// completes; a cycle aborted by a panic leaves the queue pending.
func (a *Action) Apply(state, props any) domain.Outcome {
	if a.session == nil {
		return a.pack.cycle(a, nil, state, props)
	}

	middleware := a.session.take()
	defer func() {
		if r := recover(); r != nil {
			a.session.restore(middleware)
			panic(r)
		}
	}()
	return a.pack.cycle(a, middleware, state, props)
}
