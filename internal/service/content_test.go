package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/siteadmin/internal/models"
	"github.com/atinyakov/siteadmin/internal/repository"
)

func newContent(t *testing.T) *ContentService {
	t.Helper()
	svc := NewContentService(repository.NewMemoryContentRepository())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestContent_CreateListUpdateDelete(t *testing.T) {
	svc := newContent(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.KindServices, Record{"title": "Web", "description": "Sites", "_id": "ignored"})
	require.NoError(t, err)
	id, _ := first["_id"].(string)
	require.NotEmpty(t, id)
	assert.NotEqual(t, "ignored", id)

	_, err = svc.Create(ctx, models.KindServices, Record{"title": "SEO", "description": "Rank"})
	require.NoError(t, err)

	list, err := svc.List(ctx, models.KindServices)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Web", list[0]["title"])

	updated, err := svc.Update(ctx, models.KindServices, id, Record{"title": "Web 2", "description": "Sites"})
	require.NoError(t, err)
	assert.Equal(t, id, updated["_id"])

	list, err = svc.List(ctx, models.KindServices)
	require.NoError(t, err)
	assert.Equal(t, "Web 2", list[0]["title"])

	require.NoError(t, svc.Delete(ctx, models.KindServices, id))
	err = svc.Delete(ctx, models.KindServices, id)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))

	_, err = svc.Update(ctx, models.KindServices, "missing", Record{"title": "x", "description": "y"})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))
}

func TestContent_UnknownKind(t *testing.T) {
	svc := newContent(t)
	_, err := svc.List(context.Background(), "widgets")
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))
	_, err = svc.Create(context.Background(), models.KindHeader, Record{})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))
}

func TestContent_Validation(t *testing.T) {
	svc := newContent(t)
	ctx := context.Background()

	tests := []struct {
		name string
		kind string
		rec  Record
	}{
		{name: "blank title", kind: models.KindBlogs, rec: Record{"title": "  ", "content": "x"}},
		{name: "missing answer", kind: models.KindFAQs, rec: Record{"question": "q"}},
		{name: "rating too high", kind: models.KindTestimonials, rec: Record{"name": "A", "content": "c", "rating": 6.0}},
		{name: "zero rating", kind: models.KindTestimonials, rec: Record{"name": "A", "content": "c", "rating": 0.0}},
		{name: "negative rating", kind: models.KindTestimonials, rec: Record{"name": "A", "content": "c", "rating": -1.0}},
		{name: "fractional rating", kind: models.KindTestimonials, rec: Record{"name": "A", "content": "c", "rating": 2.5}},
		{name: "rating as text", kind: models.KindTestimonials, rec: Record{"name": "A", "content": "c", "rating": "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.kind, tt.rec)
			require.Error(t, err)
			assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
		})
	}

	_, err := svc.Create(ctx, models.KindTestimonials, Record{"name": "A", "content": "c", "rating": 5.0})
	require.NoError(t, err)
}

func TestContent_Header(t *testing.T) {
	svc := newContent(t)
	ctx := context.Background()

	h, err := svc.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, Record{"menuItems": []any{}}, h)

	menu := []any{map[string]any{"label": "Home", "link": "/"}}
	saved, err := svc.SaveHeader(ctx, Record{"heading": "Hi", "menuItems": menu})
	require.NoError(t, err)
	assert.NotContains(t, saved, "_id")

	_, err = svc.SaveHeader(ctx, Record{"heading": "Hello", "menuItems": menu})
	require.NoError(t, err)

	h, err = svc.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello", h["heading"])
	assert.Equal(t, menu, h["menuItems"])

	_, err = svc.SaveHeader(ctx, Record{"menuItems": []any{map[string]any{"label": "Blog", "link": " "}}})
	var e *goerrors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, MsgBlankMenuItem, e.Message)

	_, err = svc.SaveHeader(ctx, Record{"menuItems": "Home"})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestAnalytics_Dashboard(t *testing.T) {
	content := newContent(t)
	auth := NewAuthService(repository.NewMemoryAuthRepository(), time.Hour)
	ctx := context.Background()

	require.NoError(t, auth.EnsureAdmin(ctx, "root@example.com", "pw"))
	_, err := content.Create(ctx, models.KindBlogs, Record{"title": "T", "content": "C"})
	require.NoError(t, err)
	_, err = content.Create(ctx, models.KindFAQs, Record{"question": "Q", "answer": "A"})
	require.NoError(t, err)

	got, err := NewAnalyticsService(content, auth).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{Blogs: 1, Admins: 1}, got)
}

func TestUpload_SaveAndGet(t *testing.T) {
	svc := NewUploadService("http://localhost:5000/")
	png := []byte("\x89PNG\r\n\x1a\n")

	url, err := svc.Save("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	require.NoError(t, err)
	require.Regexp(t, `^http://localhost:5000/uploads/[0-9a-f-]{36}$`, url)

	id := url[len("http://localhost:5000/uploads/"):]
	up, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, png, up.Data)

	_, err = svc.Get("nope")
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))
}

func TestUpload_RejectsBadDataURL(t *testing.T) {
	svc := NewUploadService("http://x")
	for _, in := range []string{
		"",
		"https://cdn/x.png",
		"data:image/png;base64",
		"data:image/png,abc",
		"data:text/plain;base64,aGk=",
		"data:image/png;base64,@@@",
	} {
		_, err := svc.Save(in)
		require.Error(t, err, in)
		assert.True(t, goerrors.IsCategory(err, goerrors.CategoryBadInput), in)
	}
}
