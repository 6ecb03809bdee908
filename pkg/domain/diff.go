package domain

import (
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/google/go-cmp/cmp"

	"github.com/aretw0/actionpack/pkg/composable"
)

// Diff renders a human-readable diff between two states.
// It returns an empty string when they are equal.
func Diff(prev, next any) string {
	return cmp.Diff(prev, next, cmp.Exporter(func(reflect.Type) bool { return true }))
}

// ChangedPaths lists the leaf paths whose values differ between prev and next,
// in sorted key order. Subtrees shared by reference are skipped without being
// walked, so for a structurally shared update the cost follows the copied spine.
func ChangedPaths(prev, next any) []string {
	var out []string
	walkChanged(composable.Path{}, prev, next, &out)
	return out
}

func walkChanged(at composable.Path, prev, next any, out *[]string) {
	if sameNode(prev, next) {
		return
	}

	child := func(k composable.Key) composable.Path {
		return append(at[:len(at):len(at)], k)
	}

	switch n := next.(type) {
	case map[string]any:
		if p, ok := prev.(map[string]any); ok {
			keys := slices.Sorted(maps.Keys(n))
			for k := range p {
				if _, seen := n[k]; !seen {
					keys = append(keys, k)
				}
			}
			slices.Sort(keys)
			for _, k := range keys {
				walkChanged(child(composable.Key{Name: k}), p[k], n[k], out)
			}
			return
		}
	case []any:
		if p, ok := prev.([]any); ok {
			for i := range max(len(p), len(n)) {
				var pv, nv any
				if i < len(p) {
					pv = p[i]
				}
				if i < len(n) {
					nv = n[i]
				}
				walkChanged(child(composable.Key{Name: strconv.Itoa(i), Bracketed: true}), pv, nv, out)
			}
			return
		}
	}

	*out = append(*out, at.String())
}

func sameNode(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if ok && reflect.ValueOf(av).Pointer() == reflect.ValueOf(bv).Pointer() {
			return true
		}
		return false
	case []any:
		bv, ok := b.([]any)
		if ok && len(av) == len(bv) && (len(av) == 0 || &av[0] == &bv[0]) {
			return true
		}
		return false
	}
	switch b.(type) {
	case map[string]any, []any:
		return false
	}
	return reflect.DeepEqual(a, b)
}
