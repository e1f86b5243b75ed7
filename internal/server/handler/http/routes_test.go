package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/client/api"
	"github.com/atinyakov/siteadmin/internal/client/auth"
	"github.com/atinyakov/siteadmin/internal/client/content"
	"github.com/atinyakov/siteadmin/internal/client/crud"
	"github.com/atinyakov/siteadmin/internal/client/dashboard"
	"github.com/atinyakov/siteadmin/internal/client/session"
	"github.com/atinyakov/siteadmin/internal/client/upload"
	"github.com/atinyakov/siteadmin/internal/repository"
	"github.com/atinyakov/siteadmin/internal/service"
)

// newBackend wires the real services over in-memory repositories.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	authSvc := service.NewAuthService(repository.NewMemoryAuthRepository(), time.Hour)
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), "admin@example.com", "secret"))
	contentSvc := service.NewContentService(repository.NewMemoryContentRepository())

	router := NewRouter(Handlers{
		Auth:      &AuthHandler{AuthService: authSvc},
		Content:   &ContentHandler{ContentService: contentSvc},
		Upload:    &UploadHandler{UploadService: service.NewUploadService("http://localhost")},
		Analytics: &AnalyticsHandler{AnalyticsService: service.NewAnalyticsService(contentSvc, authSvc)},
	}, authSvc, zap.NewNop())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_RequiresToken(t *testing.T) {
	srv := newBackend(t)

	res, err := http.Get(srv.URL + "/api/services")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Post(srv.URL+"/api/services", "application/json", strings.NewReader(`{"title":"x","description":"y"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, err = http.Post(srv.URL+"/api/auth/login", "text/plain", strings.NewReader(`{}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

func TestRouter_AdminClientRoundTrip(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()

	store := session.NewMemory("")
	client := api.New(srv.URL, srv.Client(), store, nil)
	authSvc := auth.New(client, store, nil)

	msg, err := authSvc.Login(ctx, "admin@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Login failed", msg)
	assert.False(t, store.Authenticated())

	_, err = authSvc.Login(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	require.True(t, store.Authenticated())

	services := crud.New(content.Services, client, nil)
	require.NoError(t, services.SetField("title", "Web design"))
	require.NoError(t, services.SetField("description", "Sites"))
	require.NoError(t, services.Submit(ctx))
	require.Len(t, services.Items(), 1)
	id := services.Items()[0].ID
	require.NotEmpty(t, id)

	require.NoError(t, services.StartEditID(id))
	require.NoError(t, services.SetField("title", "Web"))
	require.NoError(t, services.Submit(ctx))
	assert.Equal(t, "Web", services.Items()[0].Title)
	assert.Equal(t, "Service updated!", services.Message())

	blogs := crud.New(content.Blogs, client, nil)
	require.NoError(t, blogs.SetField("title", "Hello"))
	require.NoError(t, blogs.SetField("content", "Body"))
	require.NoError(t, blogs.SetField("tags", "a, b ,c"))
	require.NoError(t, blogs.Submit(ctx))
	assert.Equal(t, []string{"a", "b", "c"}, blogs.Items()[0].Tags)

	stats, err := dashboard.Fetch(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Stats{Services: 1, Blogs: 1, Admins: 1}, stats)

	require.NoError(t, services.Remove(ctx, id, crud.ConfirmFunc(func(string) bool { return true })))
	assert.Empty(t, services.Items())

	header := crud.New(content.HeaderSettings, client, nil)
	require.NoError(t, header.Load(ctx))
	require.NoError(t, header.SetField("heading", "Welcome"))
	require.NoError(t, header.SetField("menuItems", "Home | /"))
	require.NoError(t, header.Submit(ctx))

	again := crud.New(content.HeaderSettings, client, nil)
	require.NoError(t, again.Load(ctx))
	assert.Equal(t, "Welcome", again.Draft()["heading"])
	assert.Equal(t, "Home | /", again.Draft()["menuItems"])

	msg, err = authSvc.CreateAdmin(ctx, auth.Admin{Name: "Ann", Email: "admin@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryConflict))
	assert.Equal(t, "Admin already exists", msg)
}

func TestRouter_UploadServesImage(t *testing.T) {
	authSvc := service.NewAuthService(repository.NewMemoryAuthRepository(), time.Hour)
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), "admin@example.com", "secret"))
	token, err := authSvc.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	uploads := service.NewUploadService(srv.URL)
	mux.Handle("/", NewRouter(Handlers{
		Auth:      &AuthHandler{AuthService: authSvc},
		Content:   &ContentHandler{},
		Upload:    &UploadHandler{UploadService: uploads},
		Analytics: &AnalyticsHandler{},
	}, authSvc, zap.NewNop()))

	png := []byte("\x89PNG\r\n\x1a\n")
	img := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(img, png, 0o600))

	client := api.New(srv.URL, srv.Client(), session.NewMemory(token), nil)
	url, err := upload.New(client, nil).UploadFile(context.Background(), img)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, srv.URL+"/uploads/"), url)

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	assert.Equal(t, png, data)
}
