package authsdk

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// errMalformedToken is returned by inspectExpiry for anything that does not
// look like a JWT. Callers treat it the same as an expired token: go to the
// server (or the refresh flow) for the real answer.
var errMalformedToken = errors.New("authsdk: malformed token")

// inspectExpiry decodes the expiry claim from a JWT without verifying the
// signature. The client holds no signing secrets, so this is only a local
// hint to skip requests that are certain to fail; the server remains the
// authority on validity.
func inspectExpiry(raw string) (time.Time, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return time.Time{}, errMalformedToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, errMalformedToken
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return time.Time{}, errMalformedToken
	}

	return time.Unix(claims.Exp, 0), nil
}

// locallyExpired reports whether the token's embedded expiry is already in
// the past. No leeway is applied on the client; a borderline token is simply
// sent and the server's verdict decides.
func locallyExpired(raw string, now time.Time) bool {
	exp, err := inspectExpiry(raw)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}
