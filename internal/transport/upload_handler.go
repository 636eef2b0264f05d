package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
	"shop-admin/internal/editor"
	"shop-admin/internal/middleware"
)

const maxUploadBytes = 32 << 20

// UploadResponse carries the resource locator of the uploaded file. For a
// multi-file batch, Images lists every locator in selection order.
type UploadResponse struct {
	Message string   `json:"message"`
	Images  []string `json:"images,omitempty"`
}

// UploadHandler accepts multipart image uploads and feeds them through the
// upload coordinator, one file in flight at a time.
type UploadHandler struct {
	images editor.ImageStore
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(images editor.ImageStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{images: images, logger: logger}
}

// RegisterRoutes registers the upload route
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.Upload)
}

// Upload stores each "file" part in selection order. A failure mid-batch
// aborts the remaining files; locators already stored are reported back so
// the client keeps the partial progress.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Debug("Invalid multipart body", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "no file provided")
		return
	}

	files := make([]editor.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "unreadable file part")
			return
		}
		defer f.Close()
		files = append(files, editor.File{Name: fh.Filename, Content: f})
	}

	// The request is its own short-lived session; the store only collects
	// the appended locators.
	store := editor.NewStore(domain.DraftProduct{})
	defer store.Close()
	coordinator := editor.NewCoordinator(store, h.images, h.logger)

	locators, err := coordinator.UploadAll(r.Context(), files)
	if err != nil {
		details := map[string]interface{}{"uploaded": locators}
		middleware.RespondWithErrorDetails(w, http.StatusBadGateway, "upload failed", details)
		return
	}

	resp := UploadResponse{Message: locators[0]}
	if len(locators) > 1 {
		resp.Images = locators
	}
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}
