package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courseloft/courseloft/pkg/httpx"
	"github.com/courseloft/courseloft/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *tokenx.Codec {
	t.Helper()

	codec, err := tokenx.NewCodec(tokenx.Config{
		Issuer:        "courseloft-test",
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	return codec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRequireAuthenticated(t *testing.T) {
	codec := newTestCodec(t)

	var gotIdentity tokenx.Identity
	var handlerRan bool
	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerRan = true
			gotIdentity, _ = httpx.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
		httpx.RequireAuthenticated(codec),
	)

	t.Run("valid token attaches identity", func(t *testing.T) {
		handlerRan = false
		token, err := codec.IssueAccess("u1", tokenx.RoleAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, handlerRan)
		require.Equal(t, tokenx.Identity{ID: "u1", Role: tokenx.RoleAdmin}, gotIdentity)
	})

	t.Run("missing token", func(t *testing.T) {
		handlerRan = false
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.ErrorCodeMissingToken, errorCode(t, rec))
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
		require.False(t, handlerRan, "handler must never run on rejection")
	})

	t.Run("expired token", func(t *testing.T) {
		handlerRan = false
		issued := time.Now().Add(-time.Hour)
		codec.Now = func() time.Time { return issued }
		token, err := codec.IssueAccess("u1", tokenx.RoleUser)
		require.NoError(t, err)
		codec.Now = time.Now

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.ErrorCodeTokenExpired, errorCode(t, rec))
		require.False(t, handlerRan)
	})

	t.Run("garbage token", func(t *testing.T) {
		handlerRan = false
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.ErrorCodeInvalidToken, errorCode(t, rec))
		require.False(t, handlerRan)
	})

	t.Run("refresh token is not accepted for resource access", func(t *testing.T) {
		handlerRan = false
		refresh, err := codec.IssueRefresh("u1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.ErrorCodeInvalidToken, errorCode(t, rec))
		require.False(t, handlerRan)
	})
}

func TestRequireRole(t *testing.T) {
	codec := newTestCodec(t)

	newHandler := func(ran *bool) http.Handler {
		return httpx.Chain(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*ran = true
				w.WriteHeader(http.StatusOK)
			}),
			httpx.RequireAuthenticated(codec),
			httpx.RequireRole(tokenx.RoleAdmin),
		)
	}

	do := func(t *testing.T, h http.Handler, role string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := codec.IssueAccess("u1", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin passes", func(t *testing.T) {
		var ran bool
		rec := do(t, newHandler(&ran), tokenx.RoleAdmin)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, ran)
	})

	t.Run("user is rejected with 403", func(t *testing.T) {
		var ran bool
		rec := do(t, newHandler(&ran), tokenx.RoleUser)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, httpx.ErrorCodeForbidden, errorCode(t, rec))
		require.False(t, ran)
	})

	t.Run("stage 2 without stage 1 fails closed", func(t *testing.T) {
		var ran bool
		h := httpx.Chain(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ran = true }),
			httpx.RequireRole(tokenx.RoleAdmin), // no authn stage
		)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, ran)
	})
}
