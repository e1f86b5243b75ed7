package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/siteadmin/internal/service"
)

// ContentService defines the record operations required by ContentHandler.
type ContentService interface {
	List(ctx context.Context, kind string) ([]service.Record, error)
	Create(ctx context.Context, kind string, rec service.Record) (service.Record, error)
	Update(ctx context.Context, kind, id string, rec service.Record) (service.Record, error)
	Delete(ctx context.Context, kind, id string) error
	Header(ctx context.Context) (service.Record, error)
	SaveHeader(ctx context.Context, rec service.Record) (service.Record, error)
}

// ContentHandler serves the content collections and the site header.
type ContentHandler struct {
	ContentService ContentService
}

// List returns a handler for GET /api/<kind>.
func (h *ContentHandler) List(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.ContentService.List(r.Context(), kind)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// Create returns a handler for POST /api/<kind>.
func (h *ContentHandler) Create(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec service.Record
		if !decodeJSON(w, r, &rec) {
			return
		}
		created, err := h.ContentService.Create(r.Context(), kind, rec)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// Update returns a handler for PUT /api/<kind>/{id}.
func (h *ContentHandler) Update(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec service.Record
		if !decodeJSON(w, r, &rec) {
			return
		}
		updated, err := h.ContentService.Update(r.Context(), kind, chi.URLParam(r, "id"), rec)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// Delete returns a handler for DELETE /api/<kind>/{id}.
func (h *ContentHandler) Delete(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.ContentService.Delete(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Deleted successfully")
	}
}

// Header handles GET /api/header.
func (h *ContentHandler) Header(w http.ResponseWriter, r *http.Request) {
	rec, err := h.ContentService.Header(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SaveHeader handles POST /api/header.
func (h *ContentHandler) SaveHeader(w http.ResponseWriter, r *http.Request) {
	var rec service.Record
	if !decodeJSON(w, r, &rec) {
		return
	}
	saved, err := h.ContentService.SaveHeader(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
