// Package requestid assigns a correlation ID to every request and echoes
// it back in the X-Request-ID header.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"foundry/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware reuses an inbound X-Request-ID when present, otherwise
// generates one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerName)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerName, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
