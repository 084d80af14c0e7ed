package platform_test

import (
	"testing"
	"time"

	"github.com/courseloft/courseloft/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestSessionSilentRefreshAfterExpiry runs the session manager against a
// real server with a two second access token lifetime. After the access
// token expires, Resolve must recover the session through a silent refresh
// instead of logging the user out.
func TestSessionSilentRefreshAfterExpiry(t *testing.T) {
	baseURL, cleanup := setupPlatformContainerShortAccessTTL(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	store := authsdk.NewMemoryTokenStore()
	session := authsdk.NewSessionManager(client, store)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "ivan@example.com",
		Name:     "Ivan",
		Password: "Password1!",
	})
	require.NoError(t, err)

	require.NoError(t, session.Login(t.Context(), "ivan@example.com", "Password1!"))
	require.Equal(t, authsdk.StateAuthenticated, session.State())

	before, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)

	// Wait out the 2s access TTL plus the pessimistic local expiry margin
	time.Sleep(3 * time.Second)

	session.Resolve(t.Context())
	require.Equal(t, authsdk.StateAuthenticated, session.State(),
		"Expired access token with a viable refresh token should stay authenticated")

	caps := session.Capabilities()
	require.NotNil(t, caps.User)
	require.Equal(t, "ivan@example.com", caps.User.Email)

	// The silent refresh rotated the stored pair
	after, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken, "Refresh token should be rotated")
}

// TestSessionClearsDeadTokens verifies that a session whose refresh token
// was revoked server-side settles unauthenticated and clears the store.
func TestSessionClearsDeadTokens(t *testing.T) {
	baseURL, cleanup := setupPlatformContainerShortAccessTTL(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	store := authsdk.NewMemoryTokenStore()
	session := authsdk.NewSessionManager(client, store)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "judy@example.com",
		Name:     "Judy",
		Password: "Password1!",
	})
	require.NoError(t, err)

	require.NoError(t, session.Login(t.Context(), "judy@example.com", "Password1!"))

	// Revoke the refresh token behind the session's back
	tokens, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken))

	// Let the access token expire so Resolve has to go through refresh
	time.Sleep(3 * time.Second)

	session.Resolve(t.Context())
	require.Equal(t, authsdk.StateUnauthenticated, session.State())

	_, ok, err = store.Load()
	require.NoError(t, err)
	require.False(t, ok, "Dead tokens should be cleared from the store")
}

// TestSessionLogoutEndsServerSession covers the full logout path: the
// refresh token is revoked server-side and the local session ends.
func TestSessionLogoutEndsServerSession(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	store := authsdk.NewMemoryTokenStore()
	session := authsdk.NewSessionManager(client, store)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "mallory@example.com",
		Name:     "Mallory",
		Password: "Password1!",
	})
	require.NoError(t, err)

	require.NoError(t, session.Login(t.Context(), "mallory@example.com", "Password1!"))

	tokens, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, session.Logout(t.Context()))
	require.Equal(t, authsdk.StateUnauthenticated, session.State())

	_, err = client.Refresh(t.Context(), tokens.RefreshToken)
	assertUnauthorized(t, err, "Refresh token should be revoked after logout")
}
