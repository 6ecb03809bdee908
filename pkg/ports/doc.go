/*
Package ports defines the driven ports (interfaces) a host uses around an action Pack.

The Pack itself owns no state and runs no effects. These interfaces describe the
pieces a host plugs in to do so, allowing the reference runner to work with
various storage backends and effect executors.

# Key Interfaces

  - StateStore: Responsible for keeping the state snapshot of each session.
  - EffectRunner: Responsible for performing the effect descriptors a dispatch emits.
*/
package ports
