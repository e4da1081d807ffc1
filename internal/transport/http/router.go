// Package httptransport assembles the HTTP surface: route groups, auth
// middleware, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "foundry/internal/identity"
	jobhandler "foundry/internal/job"
	mediahandler "foundry/internal/media"
	"foundry/internal/ratelimit"
	reviewhandler "foundry/internal/review"
	startuphandler "foundry/internal/startup/handler"
	statshandler "foundry/internal/stats"
	viewhandler "foundry/internal/view"
	id "foundry/pkg/domain"
	"foundry/pkg/platform/httputil"
	authmw "foundry/pkg/platform/middleware/auth"
	"foundry/pkg/platform/middleware/metadata"
	"foundry/pkg/platform/middleware/requestid"
	"foundry/pkg/platform/middleware/requesttime"
)

// Handlers collects every mounted handler. Media and stats may be nil
// when their backing services are not configured.
type Handlers struct {
	Identity *identityhandler.Handler
	Startup  *startuphandler.Handler
	Review   *reviewhandler.Handler
	View     *viewhandler.Handler
	Job      *jobhandler.Handler
	Stats    *statshandler.Handler
	Media    *mediahandler.Handler
}

// NewRouter wires route groups in three rings: public, authenticated, and
// admin-only. View recording sits in the public ring with optional auth so
// anonymous visits count too. authLimiter throttles the credential
// endpoints; nil disables throttling.
func NewRouter(h Handlers, validator authmw.TokenValidator, authLimiter *ratelimit.Middleware, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public ring: browse, search, read reviews. Identity is attached
	// when present so view dedup can key on the user.
	r.Group(func(r chi.Router) {
		if authLimiter != nil {
			r.Use(authLimiter.Limit)
		}
		h.Identity.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuth(validator))
		h.Startup.RegisterPublic(r)
		h.Review.RegisterPublic(r)
		h.Job.RegisterPublic(r)
		h.View.Register(r)
	})

	// Authenticated ring.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(validator, logger))
		h.Identity.RegisterProtected(r)
		h.Startup.RegisterProtected(r)
		h.Review.RegisterProtected(r)
		h.Job.RegisterProtected(r)
		if h.Stats != nil {
			h.Stats.RegisterProtected(r)
		}
		if h.Media != nil {
			h.Media.RegisterProtected(r)
		}
	})

	// Admin ring.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(validator, logger))
		r.Use(authmw.RequireRole(id.RoleAdmin, logger))
		h.Startup.RegisterAdmin(r)
		if h.Stats != nil {
			h.Stats.RegisterAdmin(r)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
