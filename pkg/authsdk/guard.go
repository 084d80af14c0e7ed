package authsdk

import "net/url"

// Capability is the access level a guarded view requires.
type Capability int

const (
	// CapabilityAuthenticated requires any signed-in user.
	CapabilityAuthenticated Capability = iota

	// CapabilityAdmin requires a signed-in admin.
	CapabilityAdmin
)

// GuardAction is what a guarded view should do for the current session state.
type GuardAction int

const (
	// GuardRender means render the protected content.
	GuardRender GuardAction = iota

	// GuardFallback means render a neutral waiting indicator; the session
	// has not settled and no navigation may happen yet.
	GuardFallback

	// GuardRedirect means navigate to Decision.Target.
	GuardRedirect
)

// GuardDecision is the outcome of evaluating a guard against a session state.
type GuardDecision struct {
	Action GuardAction

	// Target is the navigation target when Action is GuardRedirect.
	Target string
}

// AuthPath is the login entry point redirects land on.
const AuthPath = "/auth"

// UnauthorizedPath is the neutral page shown when an authenticated user
// lacks the required capability. Not the login page; identity is known.
const UnauthorizedPath = "/"

// RedirectToAuth composes the login URL carrying the return path and an
// optional message, e.g. /auth?redirect=%2Fcourses%2Fnew&message=….
func RedirectToAuth(returnPath, message string) string {
	q := url.Values{}
	if returnPath != "" {
		q.Set("redirect", returnPath)
	}
	if message != "" {
		q.Set("message", message)
	}
	if len(q) == 0 {
		return AuthPath
	}
	return AuthPath + "?" + q.Encode()
}

// EvaluateGuard decides what a view requiring the given capability should do
// in the given session state. Pure; navigation is the caller's side effect.
//
// While the session is loading the only legal outcome is the fallback:
// rendering protected content would be optimistic, and redirecting would
// race the resolution's real outcome.
func EvaluateGuard(required Capability, caps Capabilities, currentPath string) GuardDecision {
	if caps.Loading {
		return GuardDecision{Action: GuardFallback}
	}

	if !caps.IsAuthenticated {
		return GuardDecision{
			Action: GuardRedirect,
			Target: RedirectToAuth(currentPath, ""),
		}
	}

	if required == CapabilityAdmin && !caps.IsAdmin {
		return GuardDecision{
			Action: GuardRedirect,
			Target: UnauthorizedPath + "?unauthorized=1",
		}
	}

	return GuardDecision{Action: GuardRender}
}

// RouteGuard wraps a protected view: it observes session snapshots and fires
// the navigation side effect at most once per state transition, never
// repeatedly while the state holds steady.
type RouteGuard struct {
	Required Capability

	// Navigate performs the redirect. Called at most once per transition.
	Navigate func(target string)

	lastState   SessionState
	hasLast     bool
	firedTarget string
}

// Observe evaluates the guard for the given snapshot and performs the
// navigation side effect if the decision is a redirect the guard has not
// fired for this state yet.
func (g *RouteGuard) Observe(caps Capabilities, currentPath string) GuardDecision {
	decision := EvaluateGuard(g.Required, caps, currentPath)

	state := stateOf(caps)
	sameState := g.hasLast && g.lastState == state
	g.lastState = state
	g.hasLast = true

	if decision.Action != GuardRedirect {
		g.firedTarget = ""
		return decision
	}

	// Re-observing the same settled state must not fire again.
	if sameState && g.firedTarget == decision.Target {
		return decision
	}

	g.firedTarget = decision.Target
	if g.Navigate != nil {
		g.Navigate(decision.Target)
	}
	return decision
}

func stateOf(caps Capabilities) SessionState {
	switch {
	case caps.Loading:
		return StateLoading
	case caps.IsAuthenticated:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}
