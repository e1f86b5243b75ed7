package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/client/api"
	"github.com/atinyakov/siteadmin/internal/logger"
)

// ErrNotConfirmed is returned by Remove when the confirmer declines.
var ErrNotConfirmed = errors.New("crud: deletion not confirmed")

// Requester performs one JSON request; *api.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Confirmer gates destructive actions behind an interactive yes/no.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain func to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Screen is the kind-agnostic face of a Controller, used by the shell to
// drive any resource kind the same way.
type Screen interface {
	Name() string
	Fields() []Field
	ImageField() string
	Load(ctx context.Context) error
	Lines() []string
	StartCreate()
	StartEditID(id string) error
	SetField(name, value string) error
	Draft() Draft
	Editing() string
	Submit(ctx context.Context) error
	Remove(ctx context.Context, id string, confirm Confirmer) error
	Message() string
	SetMessage(msg string)
}

// Controller holds the list, draft and editing state of one resource kind.
//
// The list is replaced wholesale by every successful Load and never patched
// locally. Overlapping Loads are not cancelled; whichever response arrives
// last is applied.
type Controller[R any] struct {
	kind   Kind[R]
	client Requester
	log    *zap.Logger

	mu      sync.Mutex
	items   []R
	draft   Draft
	editing string
	loading int
	message string
}

// New returns a Controller for kind with an empty list and template draft.
func New[R any](kind Kind[R], client Requester, log *zap.Logger) *Controller[R] {
	return &Controller[R]{
		kind:   kind,
		client: client,
		log:    logger.OrNop(log).With(zap.String("kind", kind.Name)),
		items:  []R{},
		draft:  kind.Template(),
	}
}

// Name returns the collection name.
func (c *Controller[R]) Name() string { return c.kind.Name }

// Fields returns the form template.
func (c *Controller[R]) Fields() []Field { return c.kind.Fields }

// ImageField returns the draft field that receives uploaded image URLs.
func (c *Controller[R]) ImageField() string { return c.kind.ImageField }

// Load fetches the collection and replaces the local list. On failure the
// previous list stays in place and the message is set.
func (c *Controller[R]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading++
	c.mu.Unlock()

	var (
		items []R
		err   error
	)
	if c.kind.Singleton {
		var rec R
		err = c.client.Do(ctx, http.MethodGet, c.kind.Path, nil, &rec)
		items = []R{rec}
	} else {
		err = c.client.Do(ctx, http.MethodGet, c.kind.Path, nil, &items)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if err != nil {
		c.log.Warn("load failed", zap.Error(err))
		c.message = api.Message(err, "Failed to fetch "+c.kind.Name)
		return err
	}
	if items == nil {
		items = []R{}
	}
	c.items = items
	if c.kind.Singleton {
		c.draft = c.fill(c.kind.ToDraft(items[0]))
	}
	c.log.Debug("loaded", zap.Int("count", len(items)))
	return nil
}

// Items returns a copy of the current list.
func (c *Controller[R]) Items() []R {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]R, len(c.items))
	copy(out, c.items)
	return out
}

// Lines renders the current list one record per line.
func (c *Controller[R]) Lines() []string {
	items := c.Items()
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, c.kind.Describe(it))
	}
	return lines
}

// Find returns the listed record with id.
func (c *Controller[R]) Find(id string) (R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if c.kind.ID(it) == id {
			return it, true
		}
	}
	var zero R
	return zero, false
}

// Loading reports whether a Load is in flight.
func (c *Controller[R]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// StartCreate resets the draft to the empty template and clears editing.
func (c *Controller[R]) StartCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.kind.Template()
	c.editing = ""
}

// StartEdit copies rec into the draft and marks it as the update target.
func (c *Controller[R]) StartEdit(rec R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.fill(c.kind.ToDraft(rec))
	if !c.kind.Singleton {
		c.editing = c.kind.ID(rec)
	}
}

// StartEditID is StartEdit for a record of the current list.
func (c *Controller[R]) StartEditID(id string) error {
	rec, ok := c.Find(id)
	if !ok {
		return goerrors.New(fmt.Sprintf("%s %q not found", c.kind.Noun, id), goerrors.CategoryNotFound)
	}
	c.StartEdit(rec)
	return nil
}

// SetField updates one draft field. No request is made.
func (c *Controller[R]) SetField(name, value string) error {
	if _, ok := c.kind.field(name); !ok {
		return goerrors.NewValidation("Unknown field", goerrors.FieldError{Field: name, Message: "not part of this form"})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft[name] = value
	return nil
}

// Draft returns a copy of the draft.
func (c *Controller[R]) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.clone()
}

// Editing returns the id under edit, or "" when the draft is a new record.
func (c *Controller[R]) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Message returns the last success or error text.
func (c *Controller[R]) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// SetMessage replaces the message shown next to the form.
func (c *Controller[R]) SetMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = msg
}

// Submit validates and normalises the draft, then creates (no record under
// edit) or updates the record under edit. On success the draft is reset and
// the list reloaded; on failure the draft is left untouched.
func (c *Controller[R]) Submit(ctx context.Context) error {
	c.mu.Lock()
	draft := c.draft.clone()
	editing := c.editing
	c.mu.Unlock()

	if err := c.kind.validate(draft); err != nil {
		c.fail(err, "Please fill in all required fields")
		return err
	}
	payload, err := c.kind.FromDraft(draft)
	if err != nil {
		c.fail(err, "Please check the form")
		return err
	}

	method, path, verb := http.MethodPost, c.kind.Path, "added"
	switch {
	case c.kind.Singleton:
		verb = "updated successfully"
	case editing != "":
		method, path, verb = http.MethodPut, c.kind.Path+"/"+url.PathEscape(editing), "updated"
	}

	if err := c.client.Do(ctx, method, path, payload, nil); err != nil {
		c.log.Warn("save failed", zap.String("method", method), zap.Error(err))
		c.fail(err, "Save failed")
		return err
	}

	c.mu.Lock()
	c.draft = c.kind.Template()
	c.editing = ""
	c.message = fmt.Sprintf("%s %s!", c.kind.Label, verb)
	c.mu.Unlock()

	return c.Load(ctx)
}

// Remove deletes id after confirm agrees. Declining makes no request and
// returns ErrNotConfirmed.
func (c *Controller[R]) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if c.kind.Singleton {
		err := goerrors.New(c.kind.Label+" cannot be deleted", goerrors.CategoryBadInput)
		c.fail(err, err.Message)
		return err
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Delete this %s?", c.kind.Noun)) {
		return ErrNotConfirmed
	}

	if err := c.client.Do(ctx, http.MethodDelete, c.kind.Path+"/"+url.PathEscape(id), nil, nil); err != nil {
		c.log.Warn("delete failed", zap.String("id", id), zap.Error(err))
		c.fail(err, "Delete failed")
		return err
	}

	c.mu.Lock()
	if c.editing == id {
		c.draft = c.kind.Template()
		c.editing = ""
	}
	c.message = c.kind.Label + " deleted!"
	c.mu.Unlock()

	return c.Load(ctx)
}

func (c *Controller[R]) fail(err error, fallback string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = api.Message(err, fallback)
}

// fill lays d over the template so every form field is present.
func (c *Controller[R]) fill(d Draft) Draft {
	out := c.kind.Template()
	for k, v := range d {
		out[k] = v
	}
	return out
}
