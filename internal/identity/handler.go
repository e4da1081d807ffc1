package identity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/httputil"
	"foundry/pkg/requestcontext"
)

// Handler wires auth endpoints to the identity service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated auth routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/login", h.handleLogin)
}

// RegisterProtected mounts routes that require an authenticated caller.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/auth/me", h.handleMe)
	r.Patch("/auth/me", h.handleUpdateMe)
}

type signUpRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *signUpRequest) Prepare() error {
	if r.Role == "" {
		r.Role = string(id.RoleUser)
	}
	return nil
}

type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[signUpRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	user, token, err := h.service.SignUp(ctx, SignUpParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     id.Role(req.Role),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[loginRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	user, token, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	FullName string `json:"fullname"`
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[updateProfileRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if req.FullName == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "fullname is required"))
		return
	}

	user, err := h.service.UpdateProfile(ctx, req.FullName)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
