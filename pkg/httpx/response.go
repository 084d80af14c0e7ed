package httpx

import (
	"encoding/json"
	"net/http"
)

// Error codes shared between the server and the SDK. The client's session
// machine branches on these: token_expired triggers a silent refresh, the
// others resolve straight to unauthenticated.
const (
	ErrorCodeMissingToken   = "missing_token"
	ErrorCodeTokenExpired   = "token_expired"
	ErrorCodeInvalidToken   = "invalid_token"
	ErrorCodeForbidden      = "forbidden"
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeConflict       = "conflict"
	ErrorCodeServerError    = "server_error"
	ErrorCodeRateLimited    = "rate_limit_exceeded"
	ErrorCodeInvalidLogin   = "invalid_credentials"
	ErrorCodeInvalidRefresh = "invalid_refresh_token"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets headers preventing caching of sensitive responses (tokens).
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteError writes a JSON error body in the platform's shared wire format.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}

// writeBearerError writes an RFC 6750 bearer challenge plus the JSON error
// body. The description never echoes claim contents, only the error kind.
func writeBearerError(w http.ResponseWriter, code, description string) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="invalid_token", error_description="`+description+`"`)
	WriteError(w, http.StatusUnauthorized, code, description)
}
