// Package models defines the records stored by the content backend.
package models

import (
	"encoding/json"
	"time"
)

// Admin is an account allowed to edit site content.
type Admin struct {
	// ID is the unique identifier for the admin.
	ID string
	// Name is the display name.
	Name string
	// Email is the login name; unique.
	Email string
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash []byte
	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// Token is a bearer token issued at login.
type Token struct {
	// Value is the opaque token string sent by clients.
	Value string
	// AdminID identifies the admin the token belongs to.
	AdminID string
	// CreatedAt is when the token was issued; tokens expire relative to it.
	CreatedAt time.Time
}

// Document is one content record of a kind, stored as its JSON body.
type Document struct {
	// Kind is the collection name ("services", "blogs", ...).
	Kind string
	// ID is unique within the kind.
	ID string
	// Body is the record's JSON object without its id.
	Body json.RawMessage
	// CreatedAt orders documents within a kind.
	CreatedAt time.Time
}

// Content kinds served under /api/<kind>.
const (
	KindServices     = "services"
	KindBlogs        = "blogs"
	KindTestimonials = "testimonials"
	KindFAQs         = "faqs"
	KindPortfolio    = "portfolio"
	KindHeader       = "header"
)

// HeaderID is the fixed id of the single header document.
const HeaderID = "header"

// CollectionKinds are the kinds holding lists of records.
var CollectionKinds = []string{KindServices, KindBlogs, KindTestimonials, KindFAQs, KindPortfolio}
