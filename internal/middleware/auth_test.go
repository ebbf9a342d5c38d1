// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/core"
)

type stubVerifier struct {
	subjects map[string]string
	calls    int
}

func (s *stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (string, error) {
	s.calls++
	if subject, ok := s.subjects[token]; ok {
		return subject, nil
	}
	return "", core.ErrTokenInvalid
}

type stubSource struct {
	principals map[string]*authz.Principal
}

func (s *stubSource) PrincipalByID(
	_ context.Context,
	id string,
) (*authz.Principal, error) {
	if p, ok := s.principals[id]; ok {
		return p, nil
	}
	return nil, core.ErrNotFound
}

func newAuthFixture() (*stubVerifier, *stubSource) {
	verifier := &stubVerifier{subjects: map[string]string{
		"good-token":   "u1",
		"orphan-token": "deleted-user",
		"admin-token":  "u2",
	}}
	source := &stubSource{principals: map[string]*authz.Principal{
		"u1": {ID: "u1", Username: "alice", Role: authz.RoleUser},
		"u2": {ID: "u2", Username: "root", Role: authz.RoleAdmin},
	}}
	return verifier, source
}

func captureHandler(captured **authz.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	verifier, source := newAuthFixture()

	t.Run("missing token is unauthorized", func(t *testing.T) {
		var principal *authz.Principal
		handler := Authenticator(verifier, source)(captureHandler(&principal))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, principal)
	})

	t.Run("valid token loads live principal", func(t *testing.T) {
		var principal *authz.Principal
		handler := Authenticator(verifier, source)(captureHandler(&principal))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, principal)
		assert.Equal(t, "alice", principal.Username)
		assert.Equal(t, authz.RoleUser, principal.Role)
	})

	t.Run("token for a deleted user is invalid", func(t *testing.T) {
		var principal *authz.Principal
		handler := Authenticator(verifier, source)(captureHandler(&principal))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer orphan-token")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, principal)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		var principal *authz.Principal
		handler := Authenticator(verifier, source)(captureHandler(&principal))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nonsense")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	verifier, source := newAuthFixture()

	t.Run("anonymous request passes through", func(t *testing.T) {
		var principal *authz.Principal
		handler := OptionalAuth(verifier, source)(captureHandler(&principal))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, principal)
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		var principal *authz.Principal
		handler := OptionalAuth(verifier, source)(captureHandler(&principal))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, principal)
		assert.Equal(t, "u1", principal.ID)
	})
}

func TestAuthenticatorReusesUpstreamPrincipal(t *testing.T) {
	verifier, source := newAuthFixture()

	var principal *authz.Principal
	chain := OptionalAuth(verifier, source)(
		Authenticator(verifier, source)(captureHandler(&principal)),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, "u1", principal.ID)
	assert.Equal(t, 1, verifier.calls)
}

func TestRequireAdmin(t *testing.T) {
	verifier, source := newAuthFixture()

	run := func(token string) *httptest.ResponseRecorder {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		handler := Authenticator(verifier, source)(RequireAdmin(next))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, run("good-token").Code)
	assert.Equal(t, http.StatusOK, run("admin-token").Code)
	assert.Equal(t, http.StatusUnauthorized, run("").Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}
