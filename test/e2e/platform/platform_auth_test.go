package platform_test

import (
	"testing"

	"github.com/courseloft/courseloft/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginRefresh tests the complete credential flow:
// 1. Register an account
// 2. Login
// 3. Fetch the own profile with the access token
// 4. Refresh the token pair
// 5. Verify token rotation (new tokens differ, old refresh token is dead)
func TestRegisterLoginRefresh(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	user, tokens := registerAndLogin(t, client, "alice@example.com", "Alice", "CorrectHorse1!")
	require.Equal(t, "user", user.Role, "New accounts should get the standard role")

	me, err := client.Me(t.Context(), tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.UserID, me.UserID)
	require.Equal(t, "alice@example.com", me.Email)

	// Refresh rotates the pair
	rotated, err := client.Refresh(t.Context(), tokens.RefreshToken)
	require.NoError(t, err)
	assertTokenResponse(t, rotated)
	require.NotEqual(t, tokens.AccessToken, rotated.AccessToken, "Access token should be rotated")
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken, "Refresh token should be rotated")

	// The old refresh token was revoked by the rotation
	_, err = client.Refresh(t.Context(), tokens.RefreshToken)
	assertUnauthorized(t, err, "Old refresh token should be rejected after rotation")

	// The rotated pair still works
	me, err = client.Me(t.Context(), rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.UserID, me.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "Password1!",
	})
	require.NoError(t, err)

	// Same email again, different case
	_, err = client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "Bob@Example.com",
		Name:     "Bob Again",
		Password: "Password2!",
	})
	require.Error(t, err, "Duplicate email should be rejected")

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 409, apiErr.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	registerAndLogin(t, client, "carol@example.com", "Carol", "Password1!")

	_, err := client.Login(t.Context(), "carol@example.com", "wrong-password")
	assertUnauthorized(t, err, "Wrong password should be rejected")

	_, err = client.Login(t.Context(), "nobody@example.com", "Password1!")
	assertUnauthorized(t, err, "Unknown email should be rejected")
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	_, tokens := registerAndLogin(t, client, "dave@example.com", "Dave", "Password1!")

	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken))

	_, err := client.Refresh(t.Context(), tokens.RefreshToken)
	assertUnauthorized(t, err, "Refresh token should be dead after logout")

	// Logout is idempotent
	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken))
}

func TestProtectedEndpointRejectsMissingAndGarbageTokens(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	_, err := client.Me(t.Context(), "")
	assertUnauthorized(t, err, "Missing token should yield 401")

	_, err = client.Me(t.Context(), "not-a-jwt")
	assertUnauthorized(t, err, "Garbage token should yield 401")

	// A refresh token is signed with a different secret and must not pass as
	// an access token.
	_, tokens := registerAndLogin(t, client, "erin@example.com", "Erin", "Password1!")
	_, err = client.Me(t.Context(), tokens.RefreshToken)
	assertUnauthorized(t, err, "Refresh token should not work as access token")
}
