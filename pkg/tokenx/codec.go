package tokenx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLeeway is the clock-skew tolerance applied to expiry checks during
// verification. A token verifies while now < exp + leeway; at exactly
// exp + leeway it is already expired.
const DefaultLeeway = 30 * time.Second

// Verification failure kinds. Callers branch on these: an expired access
// token is a normal trigger for a refresh attempt, an invalid one is a
// security-relevant rejection, and a missing one just means "please log in".
var (
	ErrMissing = errors.New("tokenx: no token supplied")
	ErrExpired = errors.New("tokenx: token expired")
	ErrInvalid = errors.New("tokenx: token invalid")
)

// Config carries the process-wide signing material and lifetimes. It is
// constructed once at startup and passed by reference into the codec; tests
// substitute isolated configs without any global state.
type Config struct {
	Issuer string

	AccessSecret  []byte
	RefreshSecret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Leeway is the clock-skew tolerance for expiry comparisons.
	// Zero means DefaultLeeway; use a negative value to disable.
	Leeway time.Duration
}

// Validate checks that both signing secrets are present. A missing secret is
// a startup-fatal condition, never a per-request fallback.
func (c Config) Validate() error {
	if len(c.AccessSecret) == 0 {
		return errors.New("tokenx: access token secret is not configured")
	}
	if len(c.RefreshSecret) == 0 {
		return errors.New("tokenx: refresh token secret is not configured")
	}
	return nil
}

// Codec signs and verifies purpose-scoped tokens. It holds no mutable state
// and performs no I/O; concurrent use is safe.
type Codec struct {
	cfg Config

	// Now is the clock used for issuance and verification. Overridable in
	// tests to pin expiry boundaries.
	Now func() time.Time
}

// NewCodec validates the config and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = DefaultLeeway
	}
	return &Codec{cfg: cfg, Now: time.Now}, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.cfg.AccessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.cfg.RefreshTTL }

// IssueAccess mints a signed access token for the subject with its role.
func (c *Codec) IssueAccess(subject, role string) (string, error) {
	claims := NewAccessClaims(subject, role, c.cfg.Issuer, c.cfg.AccessTTL, c.Now().UTC())
	return c.sign(claims)
}

// IssueRefresh mints a signed refresh token carrying the subject only.
func (c *Codec) IssueRefresh(subject string) (string, error) {
	claims := NewRefreshClaims(subject, c.cfg.Issuer, c.cfg.RefreshTTL, c.Now().UTC())
	return c.sign(claims)
}

func (c *Codec) sign(claims Claims) (string, error) {
	secret, err := c.secretFor(claims.TokenPurpose)
	if err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify validates a raw token against the given purpose and returns its
// claims on success. Failures collapse into exactly one of ErrMissing,
// ErrExpired or ErrInvalid; claim contents are never surfaced on failure.
func (c *Codec) Verify(raw string, purpose Purpose) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissing
	}

	secret, err := c.secretFor(purpose)
	if err != nil {
		return Claims{}, ErrInvalid
	}

	leeway := c.cfg.Leeway
	if leeway < 0 {
		leeway = 0
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(func() time.Time { return c.Now().UTC() }),
	)
	if err != nil {
		// Expired is only reported when the signature itself held up; a
		// cross-purpose or tampered token fails the signature check first.
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	if claims.TokenPurpose != purpose {
		return Claims{}, ErrInvalid
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalid
	}

	return claims, nil
}

func (c *Codec) secretFor(p Purpose) ([]byte, error) {
	switch p {
	case PurposeAccess:
		return c.cfg.AccessSecret, nil
	case PurposeRefresh:
		return c.cfg.RefreshSecret, nil
	default:
		return nil, errors.New("tokenx: unknown token purpose")
	}
}
