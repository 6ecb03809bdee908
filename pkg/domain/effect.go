package domain

import "fmt"

// EffectKind discriminates effect descriptors.
type EffectKind uint8

const (
	// EffectCall asks the host to call Call(Payload).
	EffectCall EffectKind = iota
	// EffectDispatch asks the host to call Compose(dispatch, Payload), which
	// dispatches another action through the host.
	EffectDispatch
)

func (k EffectKind) String() string {
	switch k {
	case EffectCall:
		return "call"
	case EffectDispatch:
		return "dispatch"
	default:
		return fmt.Sprintf("EffectKind(%d)", uint8(k))
	}
}

// EffectFunc performs a plain side-effect.
type EffectFunc func(payload any) error

// Dispatcher is supplied by the host to run an action against the state it owns.
type Dispatcher func(ref ActionRef) error

// ComposedFunc performs a side-effect that may dispatch further actions.
type ComposedFunc func(dispatch Dispatcher, payload any) error

// Effect is a deferred call descriptor. The pipeline only produces effects;
// the host decides when and whether to Perform them.
type Effect struct {
	Kind    EffectKind
	Name    string
	Call    EffectFunc
	Compose ComposedFunc
	Payload any
}

// Fx describes a plain call of fn with payload.
func Fx(name string, fn EffectFunc, payload any) Effect {
	return Effect{Kind: EffectCall, Name: name, Call: fn, Payload: payload}
}

// ComposedFx describes a call of fn with the host's dispatcher and payload.
func ComposedFx(name string, fn ComposedFunc, payload any) Effect {
	return Effect{Kind: EffectDispatch, Name: name, Compose: fn, Payload: payload}
}

// Perform executes the effect. Only hosts call this.
func (e Effect) Perform(dispatch Dispatcher) error {
	switch e.Kind {
	case EffectCall:
		if e.Call == nil {
			return fmt.Errorf("effect %q: %w", e.Name, ErrMalformedEffect)
		}
		return e.Call(e.Payload)
	case EffectDispatch:
		if e.Compose == nil || dispatch == nil {
			return fmt.Errorf("effect %q: %w", e.Name, ErrMalformedEffect)
		}
		return e.Compose(dispatch, e.Payload)
	default:
		return fmt.Errorf("effect %q kind %s: %w", e.Name, e.Kind, ErrMalformedEffect)
	}
}

// Next returns the action an andThen effect schedules, if any.
func (e Effect) Next() (ActionRef, bool) {
	if e.Kind != EffectDispatch {
		return ActionRef{}, false
	}
	args, ok := e.Payload.(AndThenArgs)
	if !ok {
		return ActionRef{}, false
	}
	return args.Args, true
}

// AndThenEffect is the name of effects built by AndThen.
const AndThenEffect = "andThen"

// AndThenArgs is the payload of an andThen effect.
type AndThenArgs struct {
	Args ActionRef
}

// AndThenFx dispatches the action carried in payload.
func AndThenFx(dispatch Dispatcher, payload any) error {
	args, ok := payload.(AndThenArgs)
	if !ok {
		return fmt.Errorf("andThen payload %T: %w", payload, ErrMalformedEffect)
	}
	return dispatch(args.Args)
}

// AndThen builds the effect scheduling ref for a later dispatch.
func AndThen(ref ActionRef) Effect {
	return ComposedFx(AndThenEffect, AndThenFx, AndThenArgs{Args: ref})
}
