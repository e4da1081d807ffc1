package job

import (
	"log/slog"
	"net/http"
	"time"

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

// RegisterPublic mounts the job board routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/jobs", h.handleListActive)
	r.Get("/jobs/{jobID}", h.handleGet)
	r.Get("/startups/{startupID}/jobs", h.handleListByStartup)
}

// RegisterProtected mounts posting routes behind auth middleware.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/jobs", h.handlePost)
}

type postJobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary"`
	JobType      string `json:"job_type"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email"`
	ExpiresAt    string `json:"expires_at"`
}

func (r *postJobRequest) Prepare() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.ExpiresAt == "" {
		return dErrors.New(dErrors.CodeValidation, "expires_at is required")
	}
	return nil
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[postJobRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "expires_at must be an RFC 3339 timestamp"))
		return
	}

	job, err := h.service.Post(ctx, Posting{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary,
		JobType:      Type(req.JobType),
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, job)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid job id"))
		return
	}

	job, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListActive(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	httputil.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Handler) handleListByStartup(w http.ResponseWriter, r *http.Request) {
	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid startup id"))
		return
	}

	jobs, err := h.service.ListByStartup(r.Context(), startupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	httputil.WriteJSON(w, http.StatusOK, jobs)
}
