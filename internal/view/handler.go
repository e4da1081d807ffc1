package view

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/httputil"
	"foundry/pkg/requestcontext"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the view-recording route. Auth is optional: anonymous
// visits count too.
func (h *Handler) Register(r chi.Router) {
	r.Get("/startups/{startupID}/view", h.handleRecord)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	name := cookieName(startupID, requestcontext.UserID(ctx))
	_, cookieErr := r.Cookie(name)
	hasCookie := cookieErr == nil

	result, err := h.service.Record(ctx, startupID, hasCookie)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !hasCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "1",
			Path:     "/",
			MaxAge:   int(DedupWindow.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// cookieName keys the dedup cookie by startup and viewer so one user's
// cookie never suppresses another's view on a shared browser profile.
func cookieName(startupID id.StartupID, userID id.UserID) string {
	viewer := "anonymous"
	if !userID.IsZero() {
		viewer = userID.String()
	}
	return "viewed_" + startupID.String() + "_" + viewer
}
