// Package crud implements the fetch / edit / persist / re-fetch cycle shared
// by every content screen. One generic Controller is instantiated per
// resource kind; the kind supplies paths, form template and conversions.
package crud

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Draft maps form field names to their editable text.
type Draft map[string]string

func (d Draft) clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Field describes one form input.
type Field struct {
	// Name is the draft key, matching the JSON field of the record.
	Name string
	// Label is shown next to the input.
	Label string
	// Required fields must be non-blank before submit.
	Required bool
	// Default seeds the empty template.
	Default string
}

// Kind configures a Controller for one resource type.
type Kind[R any] struct {
	// Name is the collection name, e.g. "services".
	Name string
	// Label is the capitalised singular used in messages, e.g. "Service".
	Label string
	// Noun is the singular used in prompts, e.g. "service".
	Noun string
	// Path is the collection endpoint, e.g. "/api/services".
	Path string
	// Fields is the form template in display order.
	Fields []Field
	// ImageField names the draft field that receives uploaded image URLs.
	// Empty when the kind has no image.
	ImageField string
	// Singleton kinds hold one object: GET returns it, POST saves it and
	// nothing can be deleted.
	Singleton bool

	// ID returns the record identifier.
	ID func(R) string
	// ToDraft denormalises a record into form text.
	ToDraft func(R) Draft
	// FromDraft normalises form text into the request payload.
	FromDraft func(Draft) (any, error)
	// Describe renders a record as a single list line.
	Describe func(R) string
}

// Template returns a fresh empty draft.
func (k Kind[R]) Template() Draft {
	d := make(Draft, len(k.Fields))
	for _, f := range k.Fields {
		d[f.Name] = f.Default
	}
	return d
}

func (k Kind[R]) field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// validate checks required fields in template order.
func (k Kind[R]) validate(d Draft) error {
	var errs goerrors.ValidationErrors
	for _, f := range k.Fields {
		if !f.Required {
			continue
		}
		if err := validation.Validate(strings.TrimSpace(d[f.Name]), validation.Required); err != nil {
			errs = append(errs, goerrors.FieldError{Field: f.Name, Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return goerrors.NewValidation("Please fill in all required fields", errs...)
	}
	return nil
}
