package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/courseloft/courseloft/internal/platform/domain"
	"github.com/courseloft/courseloft/internal/platform/store"
	"github.com/courseloft/courseloft/pkg/cryptox"
	"github.com/courseloft/courseloft/pkg/idx"
	"github.com/courseloft/courseloft/pkg/slogx"
	"github.com/courseloft/courseloft/pkg/tokenx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrEmailTaken         = errors.New("email_taken")
)

// AuthService implements registration, login, refresh rotation, and logout.
type AuthService struct {
	Store store.Store
	Codec *tokenx.Codec
}

// Register creates a new user with the standard role. The password is hashed
// with argon2id before it ever reaches the store.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         tokenx.RoleUser,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return u, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// Called once at startup when admin credentials are configured; an existing
// account with that email is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         tokenx.RoleAdmin,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		// Lost a race against a concurrent bootstrap; the account exists.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	slogx.FromContext(ctx).Info("bootstrap admin created", "email", email)
	return nil
}

// Login verifies the credentials and issues a fresh token pair. The refresh
// token's fingerprint is recorded so logout can revoke it server-side.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	// 1. Load the user. A missing account and a wrong password produce the
	// same error so the endpoint cannot be used to enumerate emails.
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify the password
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	// 3. Issue the pair
	return s.issuePair(ctx, u)
}

// Refresh validates the presented refresh token and rotates it: the old token
// is revoked and a new pair is issued in a single transaction. The role is
// re-resolved from the store so role changes take effect at the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshRaw string) (*domain.TokenPair, error) {
	now := time.Now()

	// 1. Verify the signature, purpose, and embedded expiry
	claims, err := s.Codec.Verify(refreshRaw, tokenx.PurposeRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	// 2. Look up the persisted record by fingerprint
	fp := cryptox.FingerprintToken(refreshRaw)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// 3. Reject revoked or expired records. The JWT expiry was already
	// checked, but the stored row is the revocation authority.
	if rt.Revoked || now.After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}
	if rt.UserID != claims.Subject {
		return nil, ErrInvalidRefresh
	}

	// 4. Re-resolve the user so the new access token carries the current role
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// 5. Sign the new pair
	accessToken, err := s.Codec.IssueAccess(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.Codec.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}

	newRT := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(newRefresh),
		ExpiresAt: now.Add(s.Codec.RefreshTTL()),
		Revoked:   false,
	}

	// 6. Rotate atomically: revoke the old record, persist the new one
	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRT)
	}); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.Codec.AccessTTL(),
	}, nil
}

// Logout revokes the presented refresh token. Revoking a token that is
// already gone is not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshRaw string) error {
	fp := cryptox.FingerprintToken(refreshRaw)
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// LogoutAll revokes every active refresh token for the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
}

func (s *AuthService) issuePair(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.Codec.IssueAccess(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshToken),
		ExpiresAt: time.Now().Add(s.Codec.RefreshTTL()),
		Revoked:   false,
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.Codec.AccessTTL(),
	}, nil
}
