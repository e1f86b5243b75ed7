// Package http provides the HTTP handlers and router of the content backend.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/siteadmin/internal/models"
)

// AuthService defines the authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Login checks the credentials and returns a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// CreateAdmin stores a new admin account.
	CreateAdmin(ctx context.Context, name, email, password string) (models.Admin, error)
}

// AuthHandler handles HTTP requests for login and admin creation.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAdminRequest represents the JSON payload for admin creation.
type CreateAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login and answers {"token": ...}.
// Bad credentials answer 401 {"message": "Login failed"}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateAdmin handles POST /api/admin/users/create-admin.
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	admin, err := h.AuthService.CreateAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"_id":     admin.ID,
		"name":    admin.Name,
		"email":   admin.Email,
		"message": "Admin created successfully!",
	})
}
