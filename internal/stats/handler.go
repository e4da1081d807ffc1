package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/httputil"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterProtected mounts the owner dashboard.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/startups/{startupID}/stats", h.handleStartupStats)
}

// RegisterAdmin mounts the platform dashboard and its export.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/stats", h.handlePlatformStats)
	r.Get("/admin/stats/export", h.handleExport)
}

func (h *Handler) handleStartupStats(w http.ResponseWriter, r *http.Request) {
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	result, err := h.service.ForStartup(r.Context(), startupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handlePlatformStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ForPlatform(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ForPlatform(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="platform-stats.xlsx"`)
	if err := WritePlatformReport(w, result); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream stats export", "error", err)
	}
}
