package media

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/httputil"
	"foundry/pkg/requestcontext"
)

// allowed upload folders, keyed by purpose.
var allowedFolders = map[string]bool{
	"logos": true,
}

type Handler struct {
	signer *Signer
	logger *slog.Logger
}

func NewHandler(signer *Signer, logger *slog.Logger) *Handler {
	return &Handler{signer: signer, logger: logger}
}

// RegisterProtected mounts the upload-signature route. Signatures are
// only issued to authenticated users.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/media/sign-upload", h.handleSignUpload)
}

type signUploadRequest struct {
	Folder string `json:"folder"`
}

func (r *signUploadRequest) Prepare() error {
	if r.Folder == "" {
		r.Folder = "logos"
	}
	return nil
}

func (h *Handler) handleSignUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[signUploadRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if !allowedFolders[req.Folder] {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown upload folder"))
		return
	}

	params := h.signer.SignUpload(req.Folder, requestcontext.Now(ctx))
	httputil.WriteJSON(w, http.StatusOK, params)
}
