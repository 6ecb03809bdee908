/*
Package session serialises access to stored session state.

Hosts that dispatch actions concurrently against the same session wrap each
load-apply-save cycle in Manager.Update so no cycle reads a state another cycle
is about to replace. Locks are reference counted and dropped once idle.
*/
package session
