// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const adminKey ctxKey = "admin"

// TokenValidator resolves a bearer token to the admin it was issued to.
type TokenValidator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// BearerAuth is a middleware that requires an "Authorization: Bearer <token>"
// header accepted by v.
//
// On success it stores the admin id in the request context, so it can be
// used downstream as the authenticated user.
func BearerAuth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Authorization token required")
				return
			}
			adminID, err := v.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), adminKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// GetAdminIDFromContext extracts the authenticated admin id from the request
// context. Returns an empty string if not found.
func GetAdminIDFromContext(ctx context.Context) string {
	val := ctx.Value(adminKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
