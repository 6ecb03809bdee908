/*
Package observability provides tools for watching the action pipeline.

It includes the diagnostic Sink a Pack reports each dispatch cycle to, a slog
backed implementation of it, and Prometheus metrics fed by lifecycle hooks.
None of it affects dispatch results.
*/
package observability
