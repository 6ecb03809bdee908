/*
Package actionpack is a registry of named actions that update an immutable state tree.

Each action is a Handler that, given props and the current state, returns a
transformation built from the composable algebra plus optional effect descriptors.
Dispatching an action applies queued middleware, then the handler's own
transformation, and returns the next state together with the effects. Nothing is
mutated in place and no effect is ever executed here: the host owns the state and
decides what to do with each descriptor.

# Concept

	host ── declare ──▶ Pack ── run/act ──▶ Handler(props, state)
	                     │                      │
	                     └── middleware ──▶ Collect(mw..., mutation)
	                                            │
	                     host ◀── Outcome{next state, effects}

# Usage

	pack := actionpack.New(actionpack.WithLogger(logger))

	pack.MustDeclare("incr", func(props, state any) domain.Result {
		var p struct{ By int }
		_ = domain.DecodeProps(props, &p)
		return domain.Mutate(composable.Select("count", composable.Func(func(c any) any {
			return c.(int) + p.By
		})))
	})

	out, err := pack.Run("incr", map[string]any{"by": 3}, map[string]any{"count": 10})
	// out.State == map[string]any{"count": 13}

Middleware is queued on a Session and consumed by the first dispatch cycle run
through it:

	out, err = pack.WithMiddleware(audit, stamp).Run("incr", props, state)
*/
package actionpack
