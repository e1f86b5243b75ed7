package service

import (
	"encoding/base64"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MaxUploadSize bounds the decoded size of an uploaded image.
const MaxUploadSize = 10 << 20

// Upload is a stored image.
type Upload struct {
	ContentType string
	Data        []byte
}

// UploadService keeps uploaded images in memory and hands out their URLs.
type UploadService struct {
	publicURL string

	mu    sync.RWMutex
	files map[string]Upload
}

// NewUploadService returns an UploadService whose URLs start with publicURL.
func NewUploadService(publicURL string) *UploadService {
	return &UploadService{
		publicURL: strings.TrimRight(publicURL, "/"),
		files:     make(map[string]Upload),
	}
}

// Save decodes a base64 image data URL, stores it and returns its absolute URL.
func (s *UploadService) Save(dataURL string) (string, error) {
	up, err := parseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.files[id] = up
	s.mu.Unlock()

	return s.publicURL + "/uploads/" + id, nil
}

// Get returns the upload stored under id.
func (s *UploadService) Get(id string) (Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	up, ok := s.files[id]
	if !ok {
		return Upload{}, goerrors.New("upload not found", goerrors.CategoryNotFound)
	}
	return up, nil
}

func badImage(msg string) error {
	return goerrors.New(msg, goerrors.CategoryBadInput).WithTextCode("INVALID_IMAGE")
}

// parseDataURL accepts "data:image/<type>;base64,<payload>".
func parseDataURL(s string) (Upload, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Upload{}, badImage("image must be a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Upload{}, badImage("malformed data URL")
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Upload{}, badImage("data URL must be base64 encoded")
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return Upload{}, badImage("only images can be uploaded")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadSize {
		return Upload{}, badImage("image too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Upload{}, badImage("invalid base64 payload")
	}
	return Upload{ContentType: mediaType, Data: data}, nil
}
