package composable

import (
	"maps"
	"slices"
)

// Action is an immutable update: either a literal replacement value or a
// Transform of the prior value. The set of implementations is closed, build
// one with Value, Func or a Transform conversion.
type Action interface {
	apply(state any) any
}

// Transform is a pure function from a state (sub)tree to a new one.
// A Transform is itself an Action.
type Transform func(state any) any

func (t Transform) apply(state any) any {
	if t == nil {
		return state
	}
	return t(state)
}

type value struct {
	v any
}

func (v value) apply(any) any {
	return v.v
}

// Value is the Action that ignores the prior value and yields v.
func Value(v any) Action {
	return value{v: v}
}

// Func is the Action that yields fn(prior).
func Func(fn func(any) any) Action {
	return Transform(fn)
}

// Composable evaluates a against state. A nil Action yields nil.
func Composable(state any, a Action) any {
	if a == nil {
		return nil
	}
	return a.apply(state)
}

// Replace returns a Transform that evaluates a against its input.
// Replace(Value(v)) ignores the input entirely.
func Replace(a Action) Transform {
	return func(state any) any {
		return Composable(state, a)
	}
}

// Merge returns a Transform producing a shallow copy of the mapping state with
// every key of the actioned mapping written on top of it.
func Merge(a Action) Transform {
	return func(state any) any {
		base := asMapping("merge", state)
		overlay := asMapping("merge", Composable(state, a))

		out := make(map[string]any, len(base)+len(overlay))
		maps.Copy(out, base)
		maps.Copy(out, overlay)
		return out
	}
}

// Concat returns a Transform appending the actioned sequence onto a copy of the
// sequence state. A non-sequence result is appended as a single element.
func Concat(a Action) Transform {
	return func(state any) any {
		base := asSequence("concat", state)
		tail := Composable(state, a)

		if seq, ok := tail.([]any); ok {
			out := make([]any, 0, len(base)+len(seq))
			out = append(out, base...)
			return append(out, seq...)
		}
		out := make([]any, 0, len(base)+1)
		out = append(out, base...)
		return append(out, tail)
	}
}

// MaxGrowth is the most slots SetIn adds to a sequence when the index is past
// its end. The gap is filled with nil slots.
const MaxGrowth = 1024

// SetIn returns a Transform that copies the current node, keeping its kind, and
// replaces the slot at key with a evaluated against the prior slot value.
// Sequence nodes need a numeric key; an index growing the sequence by more
// than MaxGrowth slots is a KindError.
func SetIn(key string, a Action) Transform {
	return setKey(Key{Name: key}, a)
}

func setKey(k Key, a Action) Transform {
	return func(state any) any {
		switch node := state.(type) {
		case nil:
			return map[string]any{k.Name: Composable(nil, a)}
		case map[string]any:
			out := make(map[string]any, len(node)+1)
			maps.Copy(out, node)
			out[k.Name] = Composable(node[k.Name], a)
			return out
		case []any:
			i, ok := k.Index()
			if !ok {
				panic(&KindError{Op: "setIn", Want: "numeric key", Got: node, Key: k.Name})
			}
			if i-len(node) >= MaxGrowth {
				panic(&KindError{Op: "setIn", Want: "index within sequence", Got: node, Key: k.Name})
			}
			out := make([]any, max(len(node), i+1))
			copy(out, node)
			out[i] = Composable(out[i], a)
			return out
		default:
			panic(&KindError{Op: "setIn", Want: "mapping or sequence", Got: state, Key: k.Name})
		}
	}
}

// Select compiles path leniently (see Split) and returns a Transform applying
// a at that location. Only the nodes along the path are copied.
func Select(path string, a Action) Transform {
	return SelectPath(Split(path), a)
}

// SelectPath is Select over an already compiled path. An empty path applies a
// to the whole state.
func SelectPath(p Path, a Action) Transform {
	if len(p) == 0 {
		return Replace(a)
	}
	return setKey(p[0], SelectPath(p[1:], a))
}

// Selection pairs a path with the Action to apply there.
type Selection struct {
	Path   string
	Action Action
}

// At is shorthand for a Selection literal.
func At(path string, a Action) Selection {
	return Selection{Path: path, Action: a}
}

// SelectAll applies each selection in order, threading the state through.
// Later selections see the effects of earlier ones.
func SelectAll(selections ...Selection) Transform {
	steps := make([]Action, len(selections))
	for i, s := range selections {
		steps[i] = Select(s.Path, s.Action)
	}
	return Collect(steps...)
}

// SelectMap is SelectAll over a map, applied in sorted path order.
func SelectMap(m map[string]Action) Transform {
	selections := make([]Selection, 0, len(m))
	for _, path := range slices.Sorted(maps.Keys(m)) {
		selections = append(selections, At(path, m[path]))
	}
	return SelectAll(selections...)
}

// Collect folds actions left to right, each receiving the previous result.
func Collect(actions ...Action) Transform {
	return func(state any) any {
		for _, a := range actions {
			state = Composable(state, a)
		}
		return state
	}
}

// Map returns a Transform over a sequence where element i becomes
// Composable(element, fn(element, i)).
func Map(fn func(v any, i int) Action) Transform {
	return func(state any) any {
		seq := asSequence("map", state)
		out := make([]any, len(seq))
		for i, v := range seq {
			out[i] = Composable(v, fn(v, i))
		}
		return out
	}
}

// Range returns a Transform replacing the sub-sequence [start, start+length)
// with a evaluated against a copy of that slice. Bounds are clamped to the
// sequence, so out of range arguments touch fewer or no elements. A sequence
// result is spliced in; any other result, nil included, becomes one element
// like in Concat. Return an empty sequence to remove the window.
func Range(start, length int, a Action) Transform {
	return func(state any) any {
		seq := asSequence("range", state)
		lo := clamp(start, len(seq))
		hi := max(lo, clamp(start+max(length, 0), len(seq)))

		mid := Composable(slices.Clone(seq[lo:hi]), a)

		out := make([]any, 0, len(seq))
		out = append(out, seq[:lo]...)
		if v, ok := mid.([]any); ok {
			out = append(out, v...)
		} else {
			out = append(out, mid)
		}
		return append(out, seq[hi:]...)
	}
}

func clamp(i, n int) int {
	return min(max(i, 0), n)
}

func asMapping(op string, v any) map[string]any {
	switch node := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return node
	default:
		panic(&KindError{Op: op, Want: "mapping", Got: v})
	}
}

func asSequence(op string, v any) []any {
	switch node := v.(type) {
	case nil:
		return nil
	case []any:
		return node
	default:
		panic(&KindError{Op: op, Want: "sequence", Got: v})
	}
}
