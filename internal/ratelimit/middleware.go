package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"foundry/pkg/requestcontext"
)

// Middleware gates a route group on the limiter. A failing limiter store
// fails open: throttling is protection, not a dependency.
type Middleware struct {
	limiter *Limiter
	logger  *slog.Logger
}

func NewMiddleware(limiter *Limiter, logger *slog.Logger) *Middleware {
	return &Middleware{limiter: limiter, logger: logger}
}

func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)

		result, err := m.limiter.Check(ctx, ip)
		if err != nil {
			m.logger.WarnContext(ctx, "rate limit check failed, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := int(result.ResetAt.Sub(requestcontext.Now(ctx)).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":           false,
				"error":             "rate_limited",
				"error_description": "too many requests, slow down",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
