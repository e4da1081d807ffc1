// Package auth provides JWT bearer-token middleware. Handlers downstream
// read the authenticated identity from requestcontext instead of parsing
// tokens themselves.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/httputil"
	"foundry/pkg/requestcontext"
)

// Claims is the validated identity carried by a bearer token.
type Claims struct {
	UserID    id.UserID
	SessionID id.SessionID
	Role      id.Role
}

// TokenValidator validates a raw bearer token into claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

func bearerToken(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func withClaims(r *http.Request, claims *Claims) *http.Request {
	ctx := r.Context()
	ctx = requestcontext.WithUserID(ctx, claims.UserID)
	ctx = requestcontext.WithSessionID(ctx, claims.SessionID)
	ctx = requestcontext.WithRole(ctx, claims.Role)
	return r.WithContext(ctx)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(r.Context()),
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// OptionalAuth attaches identity when a valid token is present and lets the
// request through anonymously otherwise. View recording uses this: both
// logged-in and anonymous visits count.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := validator.ValidateToken(token); err == nil {
					r = withClaims(r, claims)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on an exact role. Must run after RequireAuth.
func RequireRole(role id.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := requestcontext.Role(r.Context()); got != role {
				logger.WarnContext(r.Context(), "forbidden - role mismatch",
					"request_id", requestcontext.RequestID(r.Context()),
					"required_role", role,
					"role", got,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
