package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type validatorFunc func(ctx context.Context, token string) (string, error)

func (f validatorFunc) Authenticate(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

var onlyGood = validatorFunc(func(_ context.Context, token string) (string, error) {
	if token == "good" {
		return "alice", nil
	}
	return "", errors.New("bad token")
})

func TestBearerAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic good"},
		{name: "empty token", header: "Bearer   "},
		{name: "unknown token", header: "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/services", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			BearerAuth(onlyGood)(dummy).ServeHTTP(rec, req)

			if dummy.called {
				t.Error("did not expect next handler to be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 Unauthorized, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"message"`) {
				t.Errorf("expected JSON message body, got %q", rec.Body.String())
			}
		})
	}
}

func TestBearerAuth_ValidToken(t *testing.T) {
	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/services", nil)
	req.Header.Set("Authorization", "bearer good")
	BearerAuth(onlyGood)(dummy).ServeHTTP(rec, req)

	if !dummy.called {
		t.Fatal("expected next handler to be called with a valid token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
	if admin := GetAdminIDFromContext(dummy.ctx); admin != "alice" {
		t.Errorf("expected context admin 'alice', got '%s'", admin)
	}
}

func TestGetAdminIDFromContext(t *testing.T) {
	if empty := GetAdminIDFromContext(context.Background()); empty != "" {
		t.Errorf("expected empty string for missing admin, got '%s'", empty)
	}
	ctx := context.WithValue(context.Background(), adminKey, "bob")
	if val := GetAdminIDFromContext(ctx); val != "bob" {
		t.Errorf("expected 'bob', got '%s'", val)
	}
}
