package service

import (
	"context"
	"testing"
	"time"

	"github.com/courseloft/courseloft/internal/platform/store/drivers/sqlite"
	"github.com/courseloft/courseloft/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	codec, err := tokenx.NewCodec(tokenx.Config{
		Issuer:        "test-issuer",
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)

	return &AuthService{Store: st, Codec: codec}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	u, err := svc.Register(ctx, "Alice@Example.com", "Alice", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, tokenx.RoleUser, u.Role)
	require.NotEqual(t, "correct horse", u.PasswordHash)

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice@example.com", "Alice Again", "other password")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login with correct password", func(t *testing.T) {
		pair, err := svc.Login(ctx, "alice@example.com", "correct horse")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, "Bearer", pair.TokenType)

		claims, err := svc.Codec.Verify(pair.AccessToken, tokenx.PurposeAccess)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, tokenx.RoleUser, claims.Role)
	})

	t.Run("login email is case insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, "ALICE@example.com", "correct horse")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "bob@example.com", "Bob", "hunter22")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	t.Run("old refresh token is revoked after rotation", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("rotated token still works", func(t *testing.T) {
		_, err := svc.Refresh(ctx, rotated.RefreshToken)
		require.NoError(t, err)
	})
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "carol@example.com", "Carol", "p4ssword!")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "carol@example.com", "p4ssword!")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("access token in place of refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("valid signature but unknown to the registry", func(t *testing.T) {
		// Signed with the right secret but never stored, e.g. minted before
		// a database restore.
		stray, err := svc.Codec.IssueRefresh("some-user-id")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, stray)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)
	users := &UserService{Store: svc.Store}

	u, err := svc.Register(ctx, "dave@example.com", "Dave", "s3cret123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "dave@example.com", "s3cret123")
	require.NoError(t, err)

	require.NoError(t, users.SetUserRole(ctx, u.ID, tokenx.RoleAdmin))

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Codec.Verify(rotated.AccessToken, tokenx.PurposeAccess)
	require.NoError(t, err)
	require.Equal(t, tokenx.RoleAdmin, claims.Role)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "erin@example.com", "Erin", "letmein99")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "erin@example.com", "letmein99")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	t.Run("revoked token cannot refresh", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
		require.NoError(t, svc.Logout(ctx, "never-issued"))
	})
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	u, err := svc.Register(ctx, "frank@example.com", "Frank", "pa55word1")
	require.NoError(t, err)

	first, err := svc.Login(ctx, "frank@example.com", "pa55word1")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "frank@example.com", "pa55word1")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, u.ID))

	_, err = svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "Root", "admin-pass-1"))

	pair, err := svc.Login(ctx, "root@example.com", "admin-pass-1")
	require.NoError(t, err)

	claims, err := svc.Codec.Verify(pair.AccessToken, tokenx.PurposeAccess)
	require.NoError(t, err)
	require.Equal(t, tokenx.RoleAdmin, claims.Role)

	t.Run("second call leaves the account untouched", func(t *testing.T) {
		require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "Root", "different-pass"))

		_, err := svc.Login(ctx, "root@example.com", "admin-pass-1")
		require.NoError(t, err)
	})
}
