package authsdk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func adminUser() *UserResponse {
	return &UserResponse{UserID: "admin-1", Email: "root@example.com", Name: "Root", Role: "admin"}
}

func regularUser() *UserResponse {
	return &UserResponse{UserID: "user-1", Email: "alice@example.com", Name: "Alice", Role: "user"}
}

func TestRedirectToAuth(t *testing.T) {
	tests := []struct {
		name       string
		returnPath string
		message    string
		want       string
	}{
		{"path only", "/courses/new", "", "/auth?redirect=%2Fcourses%2Fnew"},
		{"path and message", "/courses/new", "session expired", "/auth?message=session+expired&redirect=%2Fcourses%2Fnew"},
		{"neither", "", "", "/auth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RedirectToAuth(tt.returnPath, tt.message))
		})
	}
}

func TestEvaluateGuard(t *testing.T) {
	loading := Capabilities{Loading: true}
	unauthed := Capabilities{}
	asUser := Capabilities{IsAuthenticated: true, User: regularUser()}
	asAdmin := Capabilities{IsAuthenticated: true, IsAdmin: true, User: adminUser()}

	tests := []struct {
		name     string
		required Capability
		caps     Capabilities
		want     GuardDecision
	}{
		{"loading renders fallback", CapabilityAuthenticated, loading,
			GuardDecision{Action: GuardFallback}},
		{"loading renders fallback even for admin routes", CapabilityAdmin, loading,
			GuardDecision{Action: GuardFallback}},
		{"unauthenticated redirects to login with return path", CapabilityAuthenticated, unauthed,
			GuardDecision{Action: GuardRedirect, Target: "/auth?redirect=%2Fcourses%2Fnew"}},
		{"user passes authenticated requirement", CapabilityAuthenticated, asUser,
			GuardDecision{Action: GuardRender}},
		{"user fails admin requirement with neutral redirect", CapabilityAdmin, asUser,
			GuardDecision{Action: GuardRedirect, Target: "/?unauthorized=1"}},
		{"admin passes admin requirement", CapabilityAdmin, asAdmin,
			GuardDecision{Action: GuardRender}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EvaluateGuard(tt.required, tt.caps, "/courses/new"))
		})
	}
}

func TestRouteGuardFiresOneRedirectPerTransition(t *testing.T) {
	var fired []string
	guard := &RouteGuard{
		Required: CapabilityAuthenticated,
		Navigate: func(target string) { fired = append(fired, target) },
	}

	// While loading, any number of renders produce zero redirects.
	loading := Capabilities{Loading: true}
	guard.Observe(loading, "/courses/new")
	guard.Observe(loading, "/courses/new")
	require.Empty(t, fired)

	// Settling unauthenticated fires exactly one redirect.
	unauthed := Capabilities{}
	d := guard.Observe(unauthed, "/courses/new")
	require.Equal(t, GuardRedirect, d.Action)
	require.Equal(t, []string{"/auth?redirect=%2Fcourses%2Fnew"}, fired)

	// Re-rendering the same settled state does not fire again.
	guard.Observe(unauthed, "/courses/new")
	guard.Observe(unauthed, "/courses/new")
	require.Len(t, fired, 1)

	// A genuine transition (login elsewhere, then logout) fires once more.
	guard.Observe(Capabilities{IsAuthenticated: true, User: regularUser()}, "/courses/new")
	require.Len(t, fired, 1)
	guard.Observe(unauthed, "/courses/new")
	require.Len(t, fired, 2)
}

func TestRouteGuardAdminOnly(t *testing.T) {
	var fired []string
	guard := &RouteGuard{
		Required: CapabilityAdmin,
		Navigate: func(target string) { fired = append(fired, target) },
	}

	asUser := Capabilities{IsAuthenticated: true, User: regularUser()}

	d := guard.Observe(Capabilities{Loading: true}, "/admin/users")
	require.Equal(t, GuardFallback, d.Action)
	require.Empty(t, fired)

	d = guard.Observe(asUser, "/admin/users")
	require.Equal(t, GuardRedirect, d.Action)
	require.Equal(t, []string{"/?unauthorized=1"}, fired)

	// Protected content never renders for the non-admin, and the redirect
	// does not repeat while the state holds.
	d = guard.Observe(asUser, "/admin/users")
	require.Equal(t, GuardRedirect, d.Action)
	require.Len(t, fired, 1)
}

func TestRouteGuardRendersWithoutNavigation(t *testing.T) {
	guard := &RouteGuard{
		Required: CapabilityAuthenticated,
		Navigate: func(string) { t.Fatal("navigation must not fire for rendered content") },
	}

	asAdmin := Capabilities{IsAuthenticated: true, IsAdmin: true, User: adminUser()}
	d := guard.Observe(asAdmin, "/courses/new")
	require.Equal(t, GuardRender, d.Action)
}
