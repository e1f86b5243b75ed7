// Package upload sends images to the backend as data URLs and feeds the
// returned address into a form draft.
package upload

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/client/api"
	"github.com/atinyakov/siteadmin/internal/client/crud"
	"github.com/atinyakov/siteadmin/internal/logger"
)

// Path is the upload endpoint.
const Path = "/api/upload"

// MaxSize caps the image read into memory.
const MaxSize = 10 << 20

// Target is a form that can receive an uploaded image address.
type Target interface {
	ImageField() string
	SetField(name, value string) error
	SetMessage(msg string)
}

// Uploader posts images to the upload endpoint.
type Uploader struct {
	client crud.Requester
	log    *zap.Logger
}

// New returns an Uploader.
func New(client crud.Requester, log *zap.Logger) *Uploader {
	return &Uploader{client: client, log: logger.OrNop(log)}
}

type request struct {
	Image string `json:"image"`
}

type response struct {
	URL   string `json:"url"`
	Image string `json:"image"`
}

// Upload reads r, posts it as a data URL and returns the hosted URL.
func (u *Uploader) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryBadInput, "read image")
	}
	if len(data) == 0 {
		return "", goerrors.New("image is empty", goerrors.CategoryBadInput)
	}
	if len(data) > MaxSize {
		return "", goerrors.New(fmt.Sprintf("image exceeds %d bytes", MaxSize), goerrors.CategoryBadInput)
	}

	var resp response
	if err := u.client.Do(ctx, http.MethodPost, Path, request{Image: DataURL(name, data)}, &resp); err != nil {
		u.log.Warn("upload failed", zap.String("name", name), zap.Error(err))
		return "", err
	}

	url := resp.URL
	if url == "" {
		url = resp.Image
	}
	if url == "" {
		return "", goerrors.New("upload response has no url", goerrors.CategoryExternal).
			WithTextCode(api.TextCodeDecode)
	}
	u.log.Debug("uploaded", zap.String("name", name), zap.Int("bytes", len(data)))
	return url, nil
}

// UploadFile uploads the file at path.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryBadInput, "open image")
	}
	defer f.Close()
	return u.Upload(ctx, filepath.Base(path), f)
}

// Attach uploads path and writes the resulting URL into the target's image
// field. On failure the field is left unchanged and the target's message
// reports the error.
func (u *Uploader) Attach(ctx context.Context, target Target, path string) (string, error) {
	field := target.ImageField()
	if field == "" {
		err := goerrors.New("this form has no image field", goerrors.CategoryBadInput)
		target.SetMessage(err.Message)
		return "", err
	}

	url, err := u.UploadFile(ctx, path)
	if err != nil {
		target.SetMessage(api.Message(err, "Image upload failed"))
		return "", err
	}
	if err := target.SetField(field, url); err != nil {
		target.SetMessage(api.Message(err, "Image upload failed"))
		return "", err
	}
	target.SetMessage("Image uploaded")
	return url, nil
}

// DataURL encodes data as "data:<mime>;base64,...". The type comes from the
// file extension, falling back to content sniffing.
func DataURL(name string, data []byte) string {
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if typ == "" {
		typ = http.DetectContentType(data)
	}
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data)
}
