package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foundry/internal/startup/models"
	"foundry/internal/startup/service"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/httputil"
	"foundry/pkg/requestcontext"
)

// Handler wires the directory endpoints to the startup service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts browse and search routes. No auth required.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/startups", h.handleSearch)
	r.Get("/startups/{startupID}", h.handleGet)
	r.Get("/categories", h.handleListCategories)
}

// RegisterProtected mounts owner routes behind auth middleware.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/startups", h.handleRegister)
	r.Patch("/startups/{startupID}", h.handleUpdate)
	r.Get("/startups/mine", h.handleMine)
}

// RegisterAdmin mounts the moderation queue and category management.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/startups", h.handleListByStatus)
	r.Post("/admin/startups/{startupID}/approve", h.handleApprove)
	r.Post("/admin/startups/{startupID}/reject", h.handleReject)
	r.Post("/admin/categories", h.handleCreateCategory)
}

type registerRequest struct {
	Name         string `json:"name"`
	CategoryID   string `json:"category_id"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LogoURL      string `json:"logo_url"`
}

func (r *registerRequest) Prepare() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (r *registerRequest) categoryID() (*id.CategoryID, error) {
	if r.CategoryID == "" {
		return nil, nil
	}
	parsed, err := id.ParseCategoryID(r.CategoryID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid category_id")
	}
	return &parsed, nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[registerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	categoryID, err := req.categoryID()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	startup, err := h.service.Register(ctx, requestcontext.UserID(ctx), requestcontext.Role(ctx), models.Registration{
		Name:         req.Name,
		CategoryID:   categoryID,
		Description:  req.Description,
		Location:     req.Location,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, startup)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	startup, err := h.service.Get(r.Context(), startupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Non-approved listings are visible only to their owner and admins.
	if !startup.IsApproved() {
		callerID := requestcontext.UserID(r.Context())
		if callerID != startup.OwnerID && requestcontext.Role(r.Context()) != id.RoleAdmin {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "startup not found"))
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, startup)
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	startup, err := h.service.GetByOwner(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, startup)
}

type updateRequest struct {
	Name         *string `json:"name"`
	CategoryID   *string `json:"category_id"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	LogoURL      *string `json:"logo_url"`
}

func (r *updateRequest) Prepare() error { return nil }

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	update := service.Update{
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		LogoURL:      req.LogoURL,
	}
	if req.CategoryID != nil {
		parsed, err := id.ParseCategoryID(*req.CategoryID)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid category_id"))
			return
		}
		update.CategoryID = &parsed
	}

	startup, err := h.service.UpdateListing(ctx, startupID, update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, startup)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	startups, err := h.service.Search(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if startups == nil {
		startups = []*models.Startup{}
	}
	httputil.WriteJSON(w, http.StatusOK, startups)
}

func filterFromQuery(r *http.Request) (models.SearchFilter, error) {
	q := r.URL.Query()
	filter := models.SearchFilter{
		Query:    q.Get("q"),
		Location: q.Get("location"),
	}

	if raw := q.Get("category_id"); raw != "" {
		parsed, err := id.ParseCategoryID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeValidation, "invalid category_id")
		}
		filter.CategoryID = &parsed
	}
	if raw := q.Get("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || minRating < 0 || minRating > 5 {
			return filter, dErrors.New(dErrors.CodeValidation, "min_rating must be a number between 0 and 5")
		}
		filter.MinRating = &minRating
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeValidation, "limit must be an integer")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeValidation, "offset must be an integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}

func (h *Handler) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusPending
	}

	startups, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if startups == nil {
		startups = []*models.Startup{}
	}
	httputil.WriteJSON(w, http.StatusOK, startups)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleModeration(w, r, h.service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleModeration(w, r, h.service.Reject)
}

func (h *Handler) handleModeration(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, startupID id.StartupID) (*models.Startup, error)) {
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	startup, err := decide(r.Context(), startupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, startup)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (r *createCategoryRequest) Prepare() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[createCategoryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	category, err := h.service.CreateCategory(ctx, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}
