// Package httpx provides the request-pipeline building blocks shared by the
// platform's HTTP surface: middleware chaining, the authentication and role
// guard stages, JSON response helpers and per-key rate limiting.
package httpx

import "net/http"

// Middleware wraps an http.Handler with a pipeline stage.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first listed middleware runs
// first. Chain(h, authn, role) authenticates before the role check.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
