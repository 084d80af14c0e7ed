// Package authsdk is the client SDK for the CourseLoft platform API.
//
// It has three layers:
//
//   - Client: stateless request/response operations against the HTTP API
//     (login, refresh, logout, profile, courses).
//
//   - SessionManager: a three-state session machine (loading, authenticated,
//     unauthenticated) that resolves identity from a TokenStore, performs
//     silent refresh when the access token has expired, and notifies
//     subscribers on every transition. In-flight resolutions are guarded by
//     a generation counter so a superseded resolution's result is discarded
//     rather than applied.
//
//   - RouteGuard: a pure decision over (required capability, session state)
//     that tells a view to render, show a fallback, or redirect, firing the
//     navigation side effect at most once per state transition.
//
// A minimal flow:
//
//	client := authsdk.NewClient("https://api.example.com")
//	store := authsdk.NewFileTokenStore(path)
//	session := authsdk.NewSessionManager(client, store)
//
//	session.Subscribe(func(caps authsdk.Capabilities) {
//		// re-render on every transition
//	})
//	session.Resolve(ctx)
package authsdk
