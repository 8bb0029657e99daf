package middleware

import "github.com/aretw0/robobunny/pkg/ports"

// Middleware allows wrapping a ProgramStore to add behavior.
type Middleware func(ports.ProgramStore) ports.ProgramStore

// Chain wraps store with mws. The first middleware is the outermost, so it
// sees every call first.
func Chain(store ports.ProgramStore, mws ...Middleware) ports.ProgramStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
