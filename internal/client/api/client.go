// Package api is the JSON request helper every admin screen goes through.
// It resolves paths against the configured base URL, attaches the bearer
// token and turns failures into categorised errors.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/logger"
)

// Text codes attached to errors returned by Client.Do.
const (
	TextCodeTransport = "TRANSPORT_FAILED"
	TextCodeStatus    = "HTTP_STATUS"
	TextCodeEncode    = "ENCODE_FAILED"
	TextCodeDecode    = "DECODE_FAILED"
)

const maxErrorBody = 64 << 10

// TokenSource provides the current bearer token ("" when logged out).
type TokenSource interface {
	Token() string
}

// Client issues JSON requests against the admin API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// New returns a Client. httpClient may be nil, tokens may be nil for
// unauthenticated use.
func New(baseURL string, httpClient *http.Client, tokens TokenSource, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     logger.OrNop(log),
	}
}

// NewHTTPClient builds the transport used by Client. When caFile is set the
// PEM bundle it points to replaces the system roots.
func NewHTTPClient(caFile string, timeout time.Duration) (*http.Client, error) {
	if caFile == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:    caPool,
			MinVersion: tls.VersionTLS12,
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// BaseURL returns the base every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends a request to path. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded JSON response.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryBadInput, "encode request body").
				WithTextCode(TextCodeEncode)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "build request").
			WithTextCode(TextCodeEncode)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return goerrors.Wrap(err, goerrors.CategoryExternal, "request failed").
			WithTextCode(TextCodeTransport)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, serverMessage(data))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, "invalid response").
			WithTextCode(TextCodeDecode)
	}
	return nil
}

// serverMessage extracts {"message": ...} or {"error": ...} from an error
// body, falling back to a short plain-text body.
func serverMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}

func statusError(status int, msg string) error {
	text := msg
	if text == "" {
		text = http.StatusText(status)
	}
	e := goerrors.New(text, categoryFor(status)).
		WithCode(status).
		WithTextCode(TextCodeStatus)
	if msg != "" {
		e = e.WithMetadata(map[string]any{"server_message": msg})
	}
	return e
}

func categoryFor(status int) goerrors.Category {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return goerrors.CategoryAuth
	case http.StatusNotFound:
		return goerrors.CategoryNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return goerrors.CategoryBadInput
	case http.StatusConflict:
		return goerrors.CategoryConflict
	default:
		return goerrors.CategoryExternal
	}
}
