/*
Package runner is a reference host for an action Pack.

A Pack never stores state and never executes effects. The Runner does both: it
keeps the state of a session in a ports.StateStore, dispatches actions against it
and performs the effect descriptors each dispatch emits. Effects built with
andThen are performed by handing them the Runner's own dispatcher, so chained
actions run against the freshly stored state.

# Usage

	r := runner.NewRunner(pack,
		runner.WithStore(memory.NewStore()),
		runner.WithSessionID("user-1"),
	)

	if err := r.Seed(ctx, map[string]any{"count": 10}); err != nil {
		log.Fatal(err)
	}
	if err := r.Run(ctx, "incr", map[string]any{"by": 3}); err != nil {
		log.Fatal(err)
	}
*/
package runner
