/*
Package composable is a small algebra of immutable tree updates.

A state tree is any nesting of mappings (map[string]any) and sequences ([]any)
with opaque leaves. Combinators build Transforms; applying a Transform never
mutates a node in place. Only the nodes along the updated path are copied, every
off-path sibling is shared by reference with the prior tree.

# Actions

An Action is either a literal replacement (Value) or a Transform. Composable is the
single evaluation rule:

	next := composable.Composable(state, composable.Value(42))          // 42
	next = composable.Composable(state, composable.Transform(increment)) // increment(state)

# Usage

	update := composable.Collect(
		composable.Select("user.name", composable.Value("ada")),
		composable.Select("user.tags", composable.Concat(composable.Value([]any{"admin"}))),
		composable.Select("items[0].qty", composable.Transform(func(q any) any { return q.(int) + 1 })),
	)

	next := update(state)
*/
package composable
