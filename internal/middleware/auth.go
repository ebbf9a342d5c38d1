// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/core"
)

const PrincipalKey contextKey = "principal"

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (string, error)
}

// PrincipalSource resolves a verified token subject to the live user record.
// Roles are re-read on every request so a role change or a deleted account
// takes effect immediately, regardless of what the token was issued with.
type PrincipalSource interface {
	PrincipalByID(ctx context.Context, id string) (*authz.Principal, error)
}

// Authenticator enforces a valid bearer token. A principal already resolved
// upstream by OptionalAuth is reused rather than verified twice.
func Authenticator(
	verifier TokenVerifier,
	source PrincipalSource,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPrincipal(r.Context()).IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			principal, err := resolvePrincipal(r.Context(), verifier, source, token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a principal when a valid token is present and falls
// through anonymously otherwise. Used on public read routes.
func OptionalAuth(
	verifier TokenVerifier,
	source PrincipalSource,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				principal, err := resolvePrincipal(
					r.Context(),
					verifier,
					source,
					token,
				)
				if err == nil {
					ctx := context.WithValue(
						r.Context(),
						PrincipalKey,
						principal,
					)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolvePrincipal(
	ctx context.Context,
	verifier TokenVerifier,
	source PrincipalSource,
	token string,
) (*authz.Principal, error) {
	subject, err := verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	principal, err := source.PrincipalByID(ctx, subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.TokenInvalidError()
		}
		return nil, err
	}

	return principal, nil
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())

		if !principal.IsAuthenticated() {
			core.JSONError(
				w,
				core.UnauthorizedError("authentication required"),
			)
			return
		}

		if !principal.IsAdmin() {
			core.JSONError(
				w,
				core.ForbiddenError("insufficient permissions"),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetPrincipal(ctx context.Context) *authz.Principal {
	if principal, ok := ctx.Value(PrincipalKey).(*authz.Principal); ok {
		return principal
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if principal := GetPrincipal(ctx); principal != nil {
		return principal.ID
	}
	return ""
}
