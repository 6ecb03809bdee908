package ports

import (
	"context"

	"github.com/aretw0/actionpack/pkg/domain"
)

// EffectRunner defines how effect descriptors are executed.
// The pipeline emits descriptors, and the host implements this interface to handle them.
type EffectRunner interface {
	RunEffect(ctx context.Context, fx domain.Effect, dispatch domain.Dispatcher) error
}

// EffectRunnerFunc adapts a function to EffectRunner.
type EffectRunnerFunc func(ctx context.Context, fx domain.Effect, dispatch domain.Dispatcher) error

func (f EffectRunnerFunc) RunEffect(ctx context.Context, fx domain.Effect, dispatch domain.Dispatcher) error {
	return f(ctx, fx, dispatch)
}

// PerformEffects is the default EffectRunner: it calls Effect.Perform.
var PerformEffects EffectRunner = EffectRunnerFunc(func(ctx context.Context, fx domain.Effect, dispatch domain.Dispatcher) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fx.Perform(dispatch)
})
