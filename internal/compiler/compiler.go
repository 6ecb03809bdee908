// Package compiler turns declarative action manifests into handlers declared
// on a Pack.
package compiler

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/actionpack"
	"github.com/aretw0/actionpack/internal/script"
	"github.com/aretw0/actionpack/pkg/composable"
	"github.com/aretw0/actionpack/pkg/domain"
)

// step builds the transformation of one Step for the props of a dispatch.
type step func(props any) composable.Action

// Compile declares every action of m on pack, in name order, and returns the
// manifest middleware. Chained actions must be declared in m or already on
// pack. On error pack is left unchanged.
func Compile(m *Manifest, pack *actionpack.Pack) ([]domain.Middleware, error) {
	names := slices.Sorted(maps.Keys(m.Actions))
	for _, name := range names {
		for _, then := range m.Actions[name].Then {
			if _, ok := m.Actions[then.Action]; ok {
				continue
			}
			if _, err := pack.Callback(then.Action); err != nil {
				return nil, fmt.Errorf("action %q chains %q: %w", name, then.Action, err)
			}
		}
	}

	handlers := make([]domain.Handler, len(names))
	for i, name := range names {
		if _, err := pack.Callback(name); err == nil {
			return nil, &domain.DeclarationError{Name: name, Err: domain.ErrDuplicateDeclaration}
		}
		handler, err := compileAction(name, m.Actions[name], pack)
		if err != nil {
			return nil, err
		}
		handlers[i] = handler
	}

	var middleware []domain.Middleware
	for i, s := range m.Middleware {
		fn, err := compileStep(s)
		if err != nil {
			return nil, fmt.Errorf("middleware step %d: %w", i, err)
		}
		middleware = append(middleware, domain.Middleware(fn))
	}

	// Nothing is declared until the whole manifest compiled.
	for i, name := range names {
		if _, err := pack.Declare(name, handlers[i]); err != nil {
			return nil, err
		}
	}
	return middleware, nil
}

func compileAction(name string, spec ActionSpec, pack *actionpack.Pack) (domain.Handler, error) {
	steps := make([]step, len(spec.Steps))
	for i, s := range spec.Steps {
		fn, err := compileStep(s)
		if err != nil {
			return nil, fmt.Errorf("action %q step %d: %w", name, i, err)
		}
		steps[i] = fn
	}

	thens := make([]func(props, state any) domain.Effect, len(spec.Then))
	for i, t := range spec.Then {
		if t.Action == "" {
			return nil, fmt.Errorf("action %q then %d: missing action", name, i)
		}
		fn, err := compileThen(t, pack)
		if err != nil {
			return nil, fmt.Errorf("action %q then %d: %w", name, i, err)
		}
		thens[i] = fn
	}

	return func(props, state any) domain.Result {
		actions := make([]composable.Action, len(steps))
		for i, fn := range steps {
			actions[i] = fn(props)
		}
		effects := make([]domain.Effect, len(thens))
		for i, fn := range thens {
			effects[i] = fn(props, state)
		}
		return domain.Mutate(composable.Collect(actions...), effects...)
	}, nil
}

func compileStep(s Step) (step, error) {
	path, err := composable.CompilePath(s.Path)
	if err != nil {
		return nil, err
	}
	if s.Expr != "" && s.Value != nil {
		return nil, fmt.Errorf("step at %q sets both value and expr", s.Path)
	}

	operand := func(any) composable.Action { return composable.Value(s.Value) }
	if s.Expr != "" {
		expr, err := script.Compile(s.Expr)
		if err != nil {
			return nil, err
		}
		operand = func(props any) composable.Action { return expr.Transform(props) }
	}

	var op func(composable.Action) composable.Action
	switch s.Op {
	case "", OpSet:
		op = func(a composable.Action) composable.Action { return a }
	case OpMerge:
		op = func(a composable.Action) composable.Action { return composable.Merge(a) }
	case OpAppend:
		op = func(a composable.Action) composable.Action { return composable.Concat(a) }
	case OpRange:
		op = func(a composable.Action) composable.Action { return composable.Range(s.Start, s.Length, a) }
	default:
		return nil, fmt.Errorf("unknown op %q", s.Op)
	}

	return func(props any) composable.Action {
		return composable.SelectPath(path, op(operand(props)))
	}, nil
}

func compileThen(t Then, pack *actionpack.Pack) (func(props, state any) domain.Effect, error) {
	if t.Expr == "" {
		return func(any, any) domain.Effect {
			return andThen(pack, t.Action, t.Props)
		}, nil
	}

	expr, err := script.Compile(t.Expr)
	if err != nil {
		return nil, err
	}
	return func(props, state any) domain.Effect {
		next, err := expr.Eval(context.Background(), state, props)
		if err != nil {
			composable.Fail(err)
		}
		return andThen(pack, t.Action, next)
	}, nil
}

func andThen(pack *actionpack.Pack, name string, props any) domain.Effect {
	fx, err := pack.AndThen(name, props)
	if err != nil {
		composable.Fail(err)
	}
	return fx
}
