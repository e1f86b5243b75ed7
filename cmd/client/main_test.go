package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: N/A")
}

func TestLoginLogoutUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"token":"T"}`))
		case "/api/upload":
			if r.Header.Get("Authorization") != "Bearer T" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"url":"https://cdn/x.png"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.json")
	img := filepath.Join(dir, "x.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	common := []string{"--api-url", srv.URL, "--session", sessionPath, "--log-level", "error"}

	_, err := run(t, "", append([]string{"upload", img}, common...)...)
	assert.ErrorIs(t, err, errNotLoggedIn)

	out, err := run(t, "pw\n", append([]string{"login", "admin@example.com"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")
	data, err := os.ReadFile(sessionPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"T"}`, string(data))

	out, err = run(t, "", append([]string{"upload", img}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "https://cdn/x.png")

	_, err = run(t, "", append([]string{"logout"}, common...)...)
	require.NoError(t, err)
	assert.NoFileExists(t, sessionPath)
}
