package platform_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/courseloft/courseloft/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for platform service end-to-end
 * tests. This includes container setup, account helpers, and assertions.
 */

const (
	testImageName = "courseloft-platform-test:latest"

	accessSecret  = "e2e-access-secret-0123456789abcdef"
	refreshSecret = "e2e-refresh-secret-0123456789abcdef"

	adminEmail    = "admin@courseloft.test"
	adminName     = "Administrator"
	adminPassword = "Admin123!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Platform Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Platform Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/platform/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// baseContainerEnv returns the common environment for the platform container.
// Rate limits are relaxed so rapid test requests don't trip the strict
// production profiles.
func baseContainerEnv() map[string]string {
	return map[string]string{
		"AUTH_ISSUER":         "courseloft-e2e",
		"AUTH_ACCESS_SECRET":  accessSecret,
		"AUTH_REFRESH_SECRET": refreshSecret,
		"ADMIN_EMAIL":         adminEmail,
		"ADMIN_NAME":          adminName,
		"ADMIN_PASSWORD":      adminPassword,
		"DATABASE_FILE":       "/platform.db",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}
}

// setupPlatformContainer starts the platform service in a container and
// returns the base URL.
func setupPlatformContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, baseContainerEnv())
}

// setupPlatformContainerShortAccessTTL starts the platform service with a
// two second access token lifetime so expiry flows can be exercised without
// long waits.
func setupPlatformContainerShortAccessTTL(t *testing.T) (string, func()) {
	t.Helper()

	env := baseContainerEnv()
	env["AUTH_ACCESS_TTL"] = "2s"
	return startContainer(t, env)
}

func startContainer(t *testing.T, env map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// registerAndLogin creates an account and logs it in, returning the user
// profile and token pair.
func registerAndLogin(t *testing.T, client *authsdk.Client, email, name, password string) (*authsdk.UserResponse, *authsdk.TokenResponse) {
	t.Helper()

	user, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	})
	require.NoError(t, err, "Register should succeed")
	require.NotEmpty(t, user.UserID)

	tokens, err := client.Login(t.Context(), email, password)
	require.NoError(t, err, "Login should succeed")
	assertTokenResponse(t, tokens)

	return user, tokens
}

// loginAdmin logs in the bootstrapped admin account.
func loginAdmin(t *testing.T, client *authsdk.Client) *authsdk.TokenResponse {
	t.Helper()

	tokens, err := client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err, "Admin login should succeed")
	assertTokenResponse(t, tokens)

	return tokens
}

// assertTokenResponse verifies a token response has all required fields.
func assertTokenResponse(t *testing.T, resp *authsdk.TokenResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")
	require.NotEmpty(t, resp.RefreshToken, "Refresh token should not be empty")
	require.Equal(t, "Bearer", resp.TokenType, "Token type should be Bearer")
	require.Positive(t, resp.ExpiresIn, "Expires in should be set")
}

// assertUnauthorized checks that an error carries a 401 API error code.
func assertUnauthorized(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, authsdk.IsUnauthorized(err),
		"%s - error should indicate unauthorized access, got: %v", context, err)
}

// assertForbidden checks that an error is a 403 API error.
func assertForbidden(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr, context)
	require.Equal(t, 403, apiErr.StatusCode,
		"%s - error should indicate forbidden access, got: %v", context, err)
}
