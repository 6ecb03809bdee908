// Package middleware decorates StateStores with persistence concerns such as
// encryption at rest and redaction of sensitive keys.
package middleware

import "github.com/aretw0/actionpack/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain wraps store with mws. The first middleware is the outermost, so it
// sees a Save first and a Load last.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
