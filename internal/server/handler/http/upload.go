package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/siteadmin/internal/service"
)

// UploadService defines the image storage used by UploadHandler.
type UploadService interface {
	Save(dataURL string) (string, error)
	Get(id string) (service.Upload, error)
}

// UploadHandler accepts data-URL images and serves them back.
type UploadHandler struct {
	UploadService UploadService
}

// Upload handles POST /api/upload with {"image": "data:..."} and answers {"url": ...}.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	url, err := h.UploadService.Save(req.Image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Serve handles GET /uploads/{id}.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	up, err := h.UploadService.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", up.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(up.Data)))
	_, _ = w.Write(up.Data)
}
