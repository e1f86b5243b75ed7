package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/atinyakov/siteadmin/internal/models"
	"github.com/atinyakov/siteadmin/internal/repository"
)

// ContentRepository defines the document persistence used by ContentService.
type ContentRepository interface {
	List(ctx context.Context, kind string) ([]models.Document, error)
	Get(ctx context.Context, kind, id string) (models.Document, error)
	Create(ctx context.Context, d models.Document) error
	Update(ctx context.Context, d models.Document) error
	Upsert(ctx context.Context, d models.Document) error
	Delete(ctx context.Context, kind, id string) error
	Count(ctx context.Context, kinds []string) (map[string]int, error)
}

// Record is a content object as exchanged with clients.
type Record map[string]any

// requiredFields lists the fields each kind cannot be saved without.
var requiredFields = map[string][]string{
	models.KindServices:     {"title", "description"},
	models.KindBlogs:        {"title", "content"},
	models.KindTestimonials: {"name", "content"},
	models.KindFAQs:         {"question", "answer"},
	models.KindPortfolio:    {"title", "description"},
}

// ContentService stores the site's content records.
type ContentService struct {
	repo ContentRepository
	now  func() time.Time
}

// NewContentService constructs a ContentService.
func NewContentService(repo ContentRepository) *ContentService {
	return &ContentService{repo: repo, now: time.Now}
}

func checkKind(kind string) error {
	if !slices.Contains(models.CollectionKinds, kind) {
		return goerrors.New(fmt.Sprintf("unknown kind %q", kind), goerrors.CategoryNotFound)
	}
	return nil
}

func notFound(kind, id string) error {
	return goerrors.New(fmt.Sprintf("%s %s not found", kind, id), goerrors.CategoryNotFound)
}

// List returns every record of kind.
func (s *ContentService) List(ctx context.Context, kind string) ([]Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "list "+kind)
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Create validates rec and stores it under a new id.
func (s *ContentService) Create(ctx context.Context, kind string, rec Record) (Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := validateRecord(kind, rec); err != nil {
		return nil, err
	}
	d, err := encode(kind, uuid.NewString(), rec, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "create "+kind)
	}
	return decode(d)
}

// Update replaces the record kind/id with rec.
func (s *ContentService) Update(ctx context.Context, kind, id string, rec Record) (Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := validateRecord(kind, rec); err != nil {
		return nil, err
	}
	d, err := encode(kind, id, rec, s.now())
	if err != nil {
		return nil, err
	}
	err = s.repo.Update(ctx, d)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(kind, id)
	}
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "update "+kind)
	}
	return decode(d)
}

// Delete removes the record kind/id.
func (s *ContentService) Delete(ctx context.Context, kind, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, kind, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(kind, id)
	}
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "delete "+kind)
	}
	return nil
}

// Header returns the site header, or an empty one when none was saved.
func (s *ContentService) Header(ctx context.Context) (Record, error) {
	d, err := s.repo.Get(ctx, models.KindHeader, models.HeaderID)
	if errors.Is(err, repository.ErrNotFound) {
		return Record{"menuItems": []any{}}, nil
	}
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "get header")
	}
	rec, err := decode(d)
	if err != nil {
		return nil, err
	}
	delete(rec, "_id")
	return rec, nil
}

// SaveHeader validates and stores the site header.
func (s *ContentService) SaveHeader(ctx context.Context, rec Record) (Record, error) {
	if err := validateMenu(rec["menuItems"]); err != nil {
		return nil, err
	}
	d, err := encode(models.KindHeader, models.HeaderID, rec, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "save header")
	}
	out, err := decode(d)
	if err != nil {
		return nil, err
	}
	delete(out, "_id")
	return out, nil
}

// Count returns the number of records per kind.
func (s *ContentService) Count(ctx context.Context, kinds ...string) (map[string]int, error) {
	counts, err := s.repo.Count(ctx, kinds)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "count records")
	}
	return counts, nil
}

func validateRecord(kind string, rec Record) error {
	fields := make([]field, 0, len(requiredFields[kind]))
	for _, name := range requiredFields[kind] {
		fields = append(fields, field{name, rec[name]})
	}
	if err := requireFields(fields...); err != nil {
		return err
	}

	if kind == models.KindTestimonials {
		if r, ok := rec["rating"]; ok && r != nil {
			n, isNum := r.(float64)
			if !isNum || n != float64(int(n)) {
				return goerrors.NewValidation("Invalid rating",
					goerrors.FieldError{Field: "rating", Message: "must be a whole number"})
			}
			if err := validation.Validate(int(n), validation.Required.Error("must be between 1 and 5"), validation.Min(1), validation.Max(5)); err != nil {
				return goerrors.NewValidation("Invalid rating",
					goerrors.FieldError{Field: "rating", Message: err.Error()})
			}
		}
	}
	return nil
}

// MsgBlankMenuItem rejects header menus with incomplete entries.
const MsgBlankMenuItem = "Menu items cannot have blank label or link. Please fill all fields or remove empty menu items."

func validateMenu(v any) error {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return goerrors.NewValidation("Invalid menu",
			goerrors.FieldError{Field: "menuItems", Message: "must be a list"})
	}
	for i, it := range items {
		m, _ := it.(map[string]any)
		label, _ := m["label"].(string)
		link, _ := m["link"].(string)
		if err := requireFields(field{"label", label}, field{"link", link}); err != nil {
			return goerrors.NewValidation(MsgBlankMenuItem,
				goerrors.FieldError{Field: fmt.Sprintf("menuItems[%d]", i), Message: "label and link are required"})
		}
	}
	return nil
}

func encode(kind, id string, rec Record, now time.Time) (models.Document, error) {
	body := make(Record, len(rec))
	for k, v := range rec {
		if k == "_id" {
			continue
		}
		body[k] = v
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return models.Document{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "encode record")
	}
	return models.Document{Kind: kind, ID: id, Body: raw, CreatedAt: now}, nil
}

func decode(d models.Document) (Record, error) {
	rec := Record{}
	if len(d.Body) > 0 {
		if err := json.Unmarshal(d.Body, &rec); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "decode "+d.Kind)
		}
	}
	rec["_id"] = d.ID
	return rec, nil
}
