/*
Package domain contains the value types of the action pipeline.

It defines what a handler returns, what an effect descriptor looks like and the
errors and events of a dispatch cycle. The package is pure: nothing here executes
an effect. Hosts interpret the descriptors they receive.

# Key Entities

  - Handler: maps props and the current state to a Result.
  - Result: the handler's own transformation plus optional effects.
  - Effect: a deferred call descriptor, either a plain call or a composed dispatch.
  - ActionRef: a declared callback paired with props, as produced by act.
  - Outcome: the next state and the effects of one dispatch cycle.
*/
package domain
