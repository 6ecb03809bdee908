package actionpack

import (
	"slices"
	"sync"

	"github.com/aretw0/actionpack/pkg/domain"
)

// Session is a view of a Pack with a middleware queue attached. The queue is
// immutable; it is consumed by the first dispatch cycle run through any
// callback of the session, after which the session dispatches with no
// middleware.
type Session struct {
	pack  *Pack
	queue []domain.Middleware

	mu    sync.Mutex
	spent bool
	bound map[string]*Action
}

func newSession(p *Pack, queue []domain.Middleware) *Session {
	return &Session{
		pack:  p,
		queue: queue,
		bound: make(map[string]*Action),
	}
}

// WithMiddleware returns a new session whose queue is this session's pending
// queue followed by middleware.
func (s *Session) WithMiddleware(middleware ...domain.Middleware) *Session {
	return newSession(s.pack, slices.Concat(s.Pending(), middleware))
}

// Pending returns the middleware that the next dispatch cycle will apply.
func (s *Session) Pending() []domain.Middleware {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spent {
		return nil
	}
	return slices.Clone(s.queue)
}

// Callback returns the callback for name bound to this session. Repeated
// calls on the same session return the same *Action.
func (s *Session) Callback(name string) (*Action, error) {
	base, err := s.pack.Callback(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.bound[name]; ok {
		return a, nil
	}
	a := &Action{name: base.name, handler: base.handler, pack: s.pack, session: s}
	s.bound[name] = a
	return a, nil
}

// Act pairs the session callback for name with props without running it.
func (s *Session) Act(name string, props any) (domain.ActionRef, error) {
	a, err := s.Callback(name)
	if err != nil {
		return domain.ActionRef{}, err
	}
	return domain.ActionRef{Callback: a, Props: props}, nil
}

// Run dispatches name through the session, consuming its middleware.
func (s *Session) Run(name string, props, state any) (domain.Outcome, error) {
	a, err := s.Callback(name)
	if err != nil {
		return domain.Outcome{}, err
	}
	s.pack.sink.Log("run", "action", name, "middleware", len(s.Pending()))
	return a.Apply(state, props), nil
}

// AndThen builds an effect asking the host to dispatch name through this
// session later.
func (s *Session) AndThen(name string, props any) (domain.Effect, error) {
	ref, err := s.Act(name, props)
	if err != nil {
		return domain.Effect{}, err
	}
	return domain.AndThen(ref), nil
}

func (s *Session) take() []domain.Middleware {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spent {
		return nil
	}
	s.spent = true
	return s.queue
}

// restore makes a queue taken by an aborted cycle pending again.
func (s *Session) restore(queue []domain.Middleware) {
	if queue == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spent = false
}
