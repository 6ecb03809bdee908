// Package script evaluates ECMAScript expressions against state trees.
//
// An expression sees two globals: state, the node it is applied to, and
// props, the props of the dispatched action. Both are deep copies, so an
// expression may mutate them freely. The completion value of the program is
// the result.
package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/mohae/deepcopy"

	"github.com/aretw0/actionpack/pkg/composable"
)

// Expr is a compiled expression.
type Expr struct {
	Source  string
	program *goja.Program
}

// Compile parses src in strict mode.
func Compile(src string) (*Expr, error) {
	p, err := goja.Compile("expr", src, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", src, err)
	}
	return &Expr{Source: src, program: p}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Eval runs the expression with state and props bound. Cancelling ctx
// interrupts a running program.
func (e *Expr) Eval(ctx context.Context, state, props any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vm := goja.New()
	if err := vm.Set("state", deepcopy.Copy(state)); err != nil {
		return nil, err
	}
	if err := vm.Set("props", deepcopy.Copy(props)); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(context.Cause(ctx))
	})
	v, err := vm.RunProgram(e.program)
	stop()

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("expression %q interrupted: %w", e.Source, context.Cause(ctx))
		}
		return nil, fmt.Errorf("expression %q: %w", e.Source, err)
	}
	if v == nil {
		return nil, nil
	}
	return canonical(v.Export()), nil
}

// Transform binds props and returns a Transform evaluating the expression
// against its input. Evaluation errors abort through composable.Fail.
func (e *Expr) Transform(props any) composable.Transform {
	return func(state any) any {
		out, err := e.Eval(context.Background(), state, props)
		if err != nil {
			composable.Fail(err)
		}
		return out
	}
}

// canonical maps exported script values back onto the state tree vocabulary.
// Integral numbers come back from the runtime as int64.
func canonical(v any) any {
	switch node := v.(type) {
	case int64:
		return int(node)
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = canonical(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = canonical(child)
		}
		return out
	default:
		return v
	}
}
