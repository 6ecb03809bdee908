package actionpack

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/actionpack/pkg/composable"
	"github.com/aretw0/actionpack/pkg/domain"
)

func replaceFoo(v any) domain.Handler {
	return func(_, _ any) domain.Result {
		return domain.Mutate(composable.Select("foo", composable.Replace(composable.Value(v))))
	}
}

func TestPack_Declare(t *testing.T) {
	t.Run("wraps a state update into an action", func(t *testing.T) {
		pack := New()
		_, err := pack.Declare("foobar", replaceFoo("baz"))
		require.NoError(t, err)

		out, err := pack.Run("foobar", map[string]any{}, map[string]any{"foo": "bar"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"foo": "baz"}, out.State)
		assert.Empty(t, out.Effects)
	})

	t.Run("reads props", func(t *testing.T) {
		pack := New()
		pack.MustDeclare("foobar", func(props, _ any) domain.Result {
			value := props.(map[string]any)["value"]
			return domain.Mutate(composable.Select("foo", composable.Value(value)))
		})

		out, err := pack.Run("foobar", map[string]any{"value": "test"}, map[string]any{"foo": "bar"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"foo": "test"}, out.State)
	})

	t.Run("passes effects through unexecuted", func(t *testing.T) {
		pack := New()
		called := false
		fx := domain.Fx("fx", func(any) error {
			called = true
			return nil
		}, map[string]any{})

		pack.MustDeclare("foobar", func(_, _ any) domain.Result {
			return domain.Mutate(composable.Select("foo", composable.Value("baz")), fx)
		})

		out, err := pack.Run("foobar", map[string]any{}, map[string]any{"foo": "bar"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"foo": "baz"}, out.State)
		require.Len(t, out.Effects, 1)
		assert.Equal(t, "fx", out.Effects[0].Name)
		assert.Equal(t, map[string]any{}, out.Effects[0].Payload)
		assert.False(t, called)
	})

	t.Run("does not redeclare an action", func(t *testing.T) {
		pack := New()
		first := pack.MustDeclare("foobar", replaceFoo("first"))

		_, err := pack.Declare("foobar", replaceFoo("second"))
		assert.ErrorIs(t, err, domain.ErrDuplicateDeclaration)
		assert.Panics(t, func() { pack.MustDeclare("foobar", replaceFoo("third")) })

		cb, err := pack.Callback("foobar")
		require.NoError(t, err)
		assert.Same(t, first, cb)

		out, _ := pack.Run("foobar", nil, map[string]any{})
		assert.Equal(t, map[string]any{"foo": "first"}, out.State)
	})

	t.Run("rejects nil handler", func(t *testing.T) {
		_, err := New().Declare("x", nil)
		assert.ErrorIs(t, err, ErrNilHandler)
	})
}

func TestPack_Callback(t *testing.T) {
	pack := New()
	declared := pack.MustDeclare("test", func(_, _ any) domain.Result {
		return domain.Mutate(composable.Value(true))
	})

	t.Run("returns the same action", func(t *testing.T) {
		a, err := pack.Callback("test")
		require.NoError(t, err)
		b, err := pack.Callback("test")
		require.NoError(t, err)

		assert.Same(t, declared, a)
		assert.Same(t, a, b)
		assert.Equal(t, "test", a.Name())
	})

	t.Run("fails if the action has not been declared", func(t *testing.T) {
		_, err := pack.Callback("foo")
		assert.ErrorIs(t, err, domain.ErrUndeclaredAction)

		_, err = pack.Run("foo", nil, nil)
		assert.ErrorIs(t, err, domain.ErrUndeclaredAction)
	})
}

func TestPack_Act(t *testing.T) {
	pack := New()
	declared := pack.MustDeclare("test", func(_, _ any) domain.Result {
		return domain.Mutate(composable.Value(true))
	})
	props := map[string]any{"foo": "bar"}

	ref, err := pack.Act("test", props)
	require.NoError(t, err)
	assert.Same(t, declared, ref.Callback)
	assert.Equal(t, props, ref.Props)
	assert.Equal(t, "test", ref.Name())

	_, err = pack.Act("missing", props)
	assert.ErrorIs(t, err, domain.ErrUndeclaredAction)
}

func TestPack_AndThen(t *testing.T) {
	pack := New()
	declared := pack.MustDeclare("test", func(_, _ any) domain.Result {
		return domain.Mutate(composable.Value(true))
	})
	props := map[string]any{"foo": "bar"}

	fx, err := pack.AndThen("test", props)
	require.NoError(t, err)
	assert.Equal(t, domain.EffectDispatch, fx.Kind)
	assert.Equal(t, domain.AndThenArgs{Args: domain.ActionRef{Callback: declared, Props: props}}, fx.Payload)

	var dispatched []domain.ActionRef
	require.NoError(t, fx.Perform(func(ref domain.ActionRef) error {
		dispatched = append(dispatched, ref)
		return nil
	}))
	require.Len(t, dispatched, 1)
	assert.Same(t, declared, dispatched[0].Callback)
	assert.Equal(t, props, dispatched[0].Props)

	_, err = pack.AndThen("missing", props)
	assert.ErrorIs(t, err, domain.ErrUndeclaredAction)
}

func TestPack_EndToEnd(t *testing.T) {
	pack := New()
	pack.MustDeclare("incr", func(props, _ any) domain.Result {
		var p struct {
			By int `mapstructure:"by"`
		}
		if err := domain.DecodeProps(props, &p); err != nil {
			return domain.Result{}
		}
		return domain.Mutate(composable.Select("count", composable.Replace(composable.Func(func(c any) any {
			return c.(int) + p.By
		}))))
	})

	state := map[string]any{"count": 10}
	out, err := pack.Run("incr", map[string]any{"by": 3}, state)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 13}, out.State)
	assert.Empty(t, out.Effects)
	assert.Equal(t, map[string]any{"count": 10}, state)
}

func TestPack_NilMutationKeepsState(t *testing.T) {
	pack := New()
	pack.MustDeclare("noop", func(_, _ any) domain.Result { return domain.Result{} })

	state := map[string]any{"a": 1}
	out, err := pack.Run("noop", nil, state)
	require.NoError(t, err)
	assert.Equal(t, state, out.State)
}

func appendLog(tag string) domain.Middleware {
	return func(props any) composable.Action {
		return composable.Select("log", composable.Concat(composable.Value(tag)))
	}
}

func TestSession_MiddlewareOrdering(t *testing.T) {
	pack := New()
	pack.MustDeclare("A", func(_, _ any) domain.Result {
		return domain.Mutate(composable.Select("log", composable.Concat(composable.Value("A"))))
	})

	session := pack.WithMiddleware(appendLog("m1"), appendLog("m2"))
	assert.Len(t, session.Pending(), 2)

	out, err := session.Run("A", nil, map[string]any{"log": []any{}})
	require.NoError(t, err)
	assert.Equal(t, []any{"m1", "m2", "A"}, out.State.(map[string]any)["log"])

	t.Run("queue is empty on the next dispatch", func(t *testing.T) {
		assert.Empty(t, session.Pending())

		out, err := session.Run("A", nil, map[string]any{"log": []any{}})
		require.NoError(t, err)
		assert.Equal(t, []any{"A"}, out.State.(map[string]any)["log"])

		out, err = pack.Run("A", nil, map[string]any{"log": []any{}})
		require.NoError(t, err)
		assert.Equal(t, []any{"A"}, out.State.(map[string]any)["log"])
	})
}

func TestSession_FailedCycleKeepsMiddleware(t *testing.T) {
	pack := New()
	boom := errors.New("boom")
	calls := 0
	pack.MustDeclare("A", func(_, _ any) domain.Result {
		calls++
		if calls == 1 {
			composable.Fail(boom)
		}
		return domain.Mutate(composable.Select("own", composable.Value(1)))
	})

	mark := func(any) composable.Action {
		return composable.Select("mw", composable.Value(true))
	}
	session := pack.WithMiddleware(mark)
	a, err := session.Callback("A")
	require.NoError(t, err)

	err = composable.Recover(func() { a.Apply(map[string]any{}, nil) })
	require.ErrorIs(t, err, boom)
	assert.Len(t, session.Pending(), 1, "aborted cycle must not consume the queue")

	var out domain.Outcome
	require.NoError(t, composable.Recover(func() { out = a.Apply(map[string]any{}, nil) }))
	assert.Equal(t, map[string]any{"mw": true, "own": 1}, out.State)
	assert.Empty(t, session.Pending())

	t.Run("failing fold", func(t *testing.T) {
		session := pack.WithMiddleware(mark)
		_, err := composable.Apply([]any{1}, composable.Func(func(state any) any {
			out, _ := session.Run("A", nil, state)
			return out.State
		}))
		var ke *composable.KindError
		require.ErrorAs(t, err, &ke)
		assert.Len(t, session.Pending(), 1)
	})
}

func TestSession_Chaining(t *testing.T) {
	pack := New()
	pack.MustDeclare("A", func(_, _ any) domain.Result {
		return domain.Mutate(composable.Select("log", composable.Concat(composable.Value("A"))))
	})

	session := pack.WithMiddleware(appendLog("m1")).WithMiddleware(appendLog("m2"), appendLog("m3"))
	out, err := session.Run("A", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"m1", "m2", "m3", "A"}, out.State.(map[string]any)["log"])
}

func TestSession_MiddlewareReceivesProps(t *testing.T) {
	pack := New()
	pack.MustDeclare("A", func(_, _ any) domain.Result { return domain.Result{} })

	stamp := func(props any) composable.Action {
		return composable.Select("stamp", composable.Value(props.(map[string]any)["at"]))
	}

	out, err := pack.WithMiddleware(stamp).Run("A", map[string]any{"at": 7}, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"stamp": 7}, out.State)
}

func TestSession_Callback(t *testing.T) {
	pack := New()
	base := pack.MustDeclare("A", func(_, _ any) domain.Result {
		return domain.Mutate(composable.Select("log", composable.Concat(composable.Value("A"))))
	})

	session := pack.WithMiddleware(appendLog("m1"))
	a, err := session.Callback("A")
	require.NoError(t, err)
	b, err := session.Callback("A")
	require.NoError(t, err)

	assert.Same(t, a, b, "stable identity within a session")
	assert.NotSame(t, base, a)

	_, err = session.Callback("missing")
	assert.ErrorIs(t, err, domain.ErrUndeclaredAction)

	t.Run("consumed on apply, not on lookup", func(t *testing.T) {
		ref, err := session.Act("A", nil)
		require.NoError(t, err)
		assert.Len(t, session.Pending(), 1)

		first := ref.Callback.Apply(nil, ref.Props)
		assert.Equal(t, []any{"m1", "A"}, first.State.(map[string]any)["log"])

		second := a.Apply(nil, nil)
		assert.Equal(t, []any{"A"}, second.State.(map[string]any)["log"])
	})
}

func TestSession_AndThen(t *testing.T) {
	pack := New()
	pack.MustDeclare("A", func(_, _ any) domain.Result { return domain.Result{} })

	session := pack.WithMiddleware(appendLog("m1"))
	fx, err := session.AndThen("A", "props")
	require.NoError(t, err)

	next, ok := fx.Next()
	require.True(t, ok)
	bound, _ := session.Callback("A")
	assert.Same(t, bound, next.Callback)

	_, err = session.AndThen("missing", nil)
	assert.ErrorIs(t, err, domain.ErrUndeclaredAction)
}

func TestPack_Hooks(t *testing.T) {
	var declared []string
	var dispatched []*domain.DispatchEvent

	pack := New(WithHooks(domain.LifecycleHooks{
		OnDeclare:  func(e *domain.DeclareEvent) { declared = append(declared, e.Action) },
		OnDispatch: func(e *domain.DispatchEvent) { dispatched = append(dispatched, e) },
	}))
	pack.MustDeclare("A", func(_, _ any) domain.Result {
		return domain.Mutate(nil, domain.Fx("fx", nil, nil))
	})
	_, _ = pack.Declare("A", func(_, _ any) domain.Result { return domain.Result{} })

	_, err := pack.WithMiddleware(appendLog("m1")).Run("A", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, declared)
	require.Len(t, dispatched, 1)
	assert.Equal(t, "A", dispatched[0].Action)
	assert.Equal(t, 1, dispatched[0].Middleware)
	assert.Equal(t, 1, dispatched[0].Effects)
	assert.NotEmpty(t, dispatched[0].CycleID)
	assert.Equal(t, []string{"A"}, pack.Names())
}

func TestPack_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	pack := New(WithLogger(logger))
	pack.MustDeclare("A", replaceFoo(1))

	_, err := pack.Run("A", nil, map[string]any{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "scope=actionpack.run action=A")
	assert.Contains(t, out, "msg=\"computed state\"")
}

func TestDirectory(t *testing.T) {
	dir := NewDirectory()

	a := dir.Get("")
	assert.Same(t, a, dir.Get(DefaultPackName))
	assert.NotSame(t, a, dir.Get("other"))

	a.MustDeclare("x", replaceFoo(1))
	_, err := dir.Get("default").Callback("x")
	assert.NoError(t, err)
	_, err = dir.Get("other").Callback("x")
	assert.ErrorIs(t, err, domain.ErrUndeclaredAction)
}
