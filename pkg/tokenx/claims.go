package tokenx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Short-lived access tokens limit the blast radius of a
// leaked bearer credential; the refresh TTL bounds how long a session can
// stay alive without re-authenticating. Both are configuration values, these
// are only the fallbacks.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Purpose scopes a token to its intended use. Each purpose is signed with its
// own secret, so a token minted for one purpose can never verify against the
// other even if the claim payloads were identical.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Role values for the platform's flat two-level role set.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RoleSatisfies reports whether a held role meets a required role. Admin
// implicitly satisfies every requirement below it.
func RoleSatisfies(have, want string) bool {
	return have == want || have == RoleAdmin
}

// Identity is the resolved subject a verified access token stands for. This
// is what the server attaches to request context and what handlers use for
// ownership decisions.
type Identity struct {
	ID   string
	Role string
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Claims is the payload embedded in both token purposes. Access tokens carry
// {sub, role}; refresh tokens carry {sub} only. The role is re-resolved from
// the store at refresh time and must never be trusted from a refresh token.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the subject's role at issuance time. Present on access tokens
	// only; always empty on refresh tokens.
	Role string `json:"role,omitempty"`

	// TokenPurpose tags the claim set with its purpose. The cryptographic
	// isolation comes from the per-purpose secrets; this claim is a structural
	// double-check on top.
	TokenPurpose Purpose `json:"purpose"`
}

// Identity extracts the identity carried by a verified access claim set.
func (c Claims) Identity() Identity {
	return Identity{ID: c.Subject, Role: c.Role}
}

// NewAccessClaims builds claims for an access token. Expiry is absolute
// (now + ttl), so verification never needs to know when the token was minted.
func NewAccessClaims(subject, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:         role,
		TokenPurpose: PurposeAccess,
	}
}

// NewRefreshClaims builds claims for a refresh token. Only the subject is
// embedded: a refresh token is a lookup credential, not an authorization
// statement.
func NewRefreshClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenPurpose: PurposeRefresh,
	}
}
