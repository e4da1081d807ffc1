package review

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

// RegisterPublic mounts read-only review routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/startups/{startupID}/reviews", h.handleList)
	r.Get("/reviews/{reviewID}/replies", h.handleListReplies)
}

// RegisterProtected mounts submission routes behind auth middleware.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/startups/{startupID}/reviews", h.handleCreate)
	r.Post("/reviews/{reviewID}/replies", h.handleReply)
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r *createReviewRequest) Prepare() error {
	if r.Rating == 0 {
		return dErrors.New(dErrors.CodeValidation, "rating is required")
	}
	return nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[createReviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	review, err := h.service.Create(ctx, startupID, req.Rating, req.Comment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, review)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	reviews, err := h.service.ListByStartup(r.Context(), startupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*ReviewWithAuthor{}
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

type replyRequest struct {
	Text string `json:"text"`
}

func (r *replyRequest) Prepare() error {
	if r.Text == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	return nil
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reviewID, err := id.ParseReviewID(chi.URLParam(r, "reviewID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid review id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[replyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	reply, err := h.service.Reply(ctx, reviewID, req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, reply)
}

func (h *Handler) handleListReplies(w http.ResponseWriter, r *http.Request) {
	reviewID, err := id.ParseReviewID(chi.URLParam(r, "reviewID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid review id"))
		return
	}

	replies, err := h.service.ListReplies(r.Context(), reviewID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if replies == nil {
		replies = []*Reply{}
	}
	httputil.WriteJSON(w, http.StatusOK, replies)
}
