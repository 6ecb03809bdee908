package domain

import (
	"github.com/aretw0/actionpack/pkg/composable"
)

// Handler computes the mutation for one action from its props and the state
// it is dispatched against.
type Handler func(props, state any) Result

// Middleware derives a transformation from the props of the action being
// dispatched. Queued middleware runs before the handler's own mutation.
type Middleware func(props any) composable.Action

// Result is what a Handler resolves to: its own transformation followed by
// zero or more effect descriptors.
type Result struct {
	Mutation composable.Action
	Effects  []Effect
}

// Mutate builds a Result.
func Mutate(mutation composable.Action, effects ...Effect) Result {
	return Result{Mutation: mutation, Effects: effects}
}

// With returns a copy of r with more effects appended.
func (r Result) With(effects ...Effect) Result {
	out := make([]Effect, 0, len(r.Effects)+len(effects))
	out = append(out, r.Effects...)
	r.Effects = append(out, effects...)
	return r
}

// Callback is a declared action bound to its name. Apply runs one dispatch
// cycle against state.
type Callback interface {
	Name() string
	Apply(state, props any) Outcome
}

// Outcome is the result of a dispatch cycle: the next state followed by the
// effects the handler emitted, unexecuted.
type Outcome struct {
	State   any
	Effects []Effect
}

// ActionRef is a callback paired with the props to dispatch it with.
type ActionRef struct {
	Callback Callback
	Props    any
}

// Name returns the name of the referenced action.
func (r ActionRef) Name() string {
	if r.Callback == nil {
		return ""
	}
	return r.Callback.Name()
}
