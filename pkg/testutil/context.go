package testutil

import (
	"net/http"
	"time"

	id "foundry/pkg/domain"
	"foundry/pkg/requestcontext"
)

// WithUser attaches an authenticated identity to the request context,
// simulating what the auth middleware does. Invalid IDs are ignored.
func WithUser(req *http.Request, userID string, role id.Role) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	if role != "" {
		ctx = requestcontext.WithRole(ctx, role)
	}
	return req.WithContext(ctx)
}

// WithTime pins the request's notion of now, simulating the request-time
// middleware.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithClient attaches client IP and user agent, simulating the metadata
// middleware.
func WithClient(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}
