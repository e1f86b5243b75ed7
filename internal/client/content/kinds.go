// Package content defines the site's editable resource kinds and how each
// one maps between its JSON record and the form draft.
package content

import (
	"fmt"
	"strings"

	"github.com/atinyakov/siteadmin/internal/client/crud"
)

// Service is one offered service.
type Service struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Blog is one blog post.
type Blog struct {
	ID      string   `json:"_id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Image   string   `json:"image,omitempty"`
	Author  string   `json:"author,omitempty"`
	Tags    []string `json:"tags"`
}

// Testimonial is one customer quote.
type Testimonial struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Avatar  string `json:"avatar,omitempty"`
	Rating  int    `json:"rating"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	ID       string `json:"_id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Project is one portfolio entry.
type Project struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Link        string   `json:"link,omitempty"`
	Tags        []string `json:"tags"`
}

// MenuItem is one header navigation link.
type MenuItem struct {
	Label string `json:"label"`
	Link  string `json:"link"`
}

// Header is the site-wide header block. There is exactly one.
type Header struct {
	Logo        string     `json:"logo"`
	Heading     string     `json:"heading"`
	Paragraph   string     `json:"paragraph"`
	ButtonText  string     `json:"buttonText"`
	ButtonLink  string     `json:"buttonLink"`
	Button2Text string     `json:"button2Text"`
	Button2Link string     `json:"button2Link"`
	MenuItems   []MenuItem `json:"menuItems"`
}

func trim(d crud.Draft, name string) string {
	return strings.TrimSpace(d[name])
}

// Services is the services screen.
var Services = crud.Kind[Service]{
	Name:  "services",
	Label: "Service",
	Noun:  "service",
	Path:  "/api/services",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "description", Label: "Description", Required: true},
		{Name: "icon", Label: "Icon"},
		{Name: "image", Label: "Image URL"},
	},
	ImageField: "image",
	ID:         func(s Service) string { return s.ID },
	ToDraft: func(s Service) crud.Draft {
		return crud.Draft{"title": s.Title, "description": s.Description, "icon": s.Icon, "image": s.Image}
	},
	FromDraft: func(d crud.Draft) (any, error) {
		return Service{
			Title:       trim(d, "title"),
			Description: trim(d, "description"),
			Icon:        trim(d, "icon"),
			Image:       trim(d, "image"),
		}, nil
	},
	Describe: func(s Service) string { return fmt.Sprintf("%s  %s", s.ID, s.Title) },
}

// Blogs is the blog posts screen.
var Blogs = crud.Kind[Blog]{
	Name:  "blogs",
	Label: "Blog",
	Noun:  "blog",
	Path:  "/api/blogs",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "content", Label: "Content", Required: true},
		{Name: "author", Label: "Author"},
		{Name: "tags", Label: "Tags (comma separated)"},
		{Name: "image", Label: "Image URL"},
	},
	ImageField: "image",
	ID:         func(b Blog) string { return b.ID },
	ToDraft: func(b Blog) crud.Draft {
		return crud.Draft{
			"title":   b.Title,
			"content": b.Content,
			"author":  b.Author,
			"tags":    JoinTags(b.Tags),
			"image":   b.Image,
		}
	},
	FromDraft: func(d crud.Draft) (any, error) {
		return Blog{
			Title:   trim(d, "title"),
			Content: d["content"],
			Author:  trim(d, "author"),
			Tags:    SplitTags(d["tags"]),
			Image:   trim(d, "image"),
		}, nil
	},
	Describe: func(b Blog) string {
		line := fmt.Sprintf("%s  %s", b.ID, b.Title)
		if len(b.Tags) > 0 {
			line += "  [" + JoinTags(b.Tags) + "]"
		}
		return line
	},
}

// Testimonials is the testimonials screen.
var Testimonials = crud.Kind[Testimonial]{
	Name:  "testimonials",
	Label: "Testimonial",
	Noun:  "testimonial",
	Path:  "/api/testimonials",
	Fields: []crud.Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "content", Label: "Content", Required: true},
		{Name: "rating", Label: "Rating (1-5)", Default: FormatRating(DefaultRating)},
		{Name: "avatar", Label: "Avatar URL"},
	},
	ImageField: "avatar",
	ID:         func(t Testimonial) string { return t.ID },
	ToDraft: func(t Testimonial) crud.Draft {
		return crud.Draft{
			"name":    t.Name,
			"content": t.Content,
			"rating":  FormatRating(t.Rating),
			"avatar":  t.Avatar,
		}
	},
	FromDraft: func(d crud.Draft) (any, error) {
		rating, err := ParseRating(d["rating"])
		if err != nil {
			return nil, err
		}
		return Testimonial{
			Name:    trim(d, "name"),
			Content: d["content"],
			Rating:  rating,
			Avatar:  trim(d, "avatar"),
		}, nil
	},
	Describe: func(t Testimonial) string {
		return fmt.Sprintf("%s  %s (%s)", t.ID, t.Name, strings.Repeat("*", t.Rating))
	},
}

// FAQs is the FAQ screen.
var FAQs = crud.Kind[FAQ]{
	Name:  "faqs",
	Label: "FAQ",
	Noun:  "FAQ",
	Path:  "/api/faqs",
	Fields: []crud.Field{
		{Name: "question", Label: "Question", Required: true},
		{Name: "answer", Label: "Answer", Required: true},
	},
	ID: func(f FAQ) string { return f.ID },
	ToDraft: func(f FAQ) crud.Draft {
		return crud.Draft{"question": f.Question, "answer": f.Answer}
	},
	FromDraft: func(d crud.Draft) (any, error) {
		return FAQ{Question: trim(d, "question"), Answer: d["answer"]}, nil
	},
	Describe: func(f FAQ) string { return fmt.Sprintf("%s  %s", f.ID, f.Question) },
}

// Portfolio is the portfolio projects screen.
var Portfolio = crud.Kind[Project]{
	Name:  "portfolio",
	Label: "Project",
	Noun:  "project",
	Path:  "/api/portfolio",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "description", Label: "Description", Required: true},
		{Name: "link", Label: "Link"},
		{Name: "tags", Label: "Tags (comma separated)"},
		{Name: "image", Label: "Image URL"},
	},
	ImageField: "image",
	ID:         func(p Project) string { return p.ID },
	ToDraft: func(p Project) crud.Draft {
		return crud.Draft{
			"title":       p.Title,
			"description": p.Description,
			"link":        p.Link,
			"tags":        JoinTags(p.Tags),
			"image":       p.Image,
		}
	},
	FromDraft: func(d crud.Draft) (any, error) {
		return Project{
			Title:       trim(d, "title"),
			Description: d["description"],
			Link:        trim(d, "link"),
			Tags:        SplitTags(d["tags"]),
			Image:       trim(d, "image"),
		}, nil
	},
	Describe: func(p Project) string { return fmt.Sprintf("%s  %s", p.ID, p.Title) },
}

// HeaderSettings is the singleton header screen.
var HeaderSettings = crud.Kind[Header]{
	Name:      "header",
	Label:     "Header",
	Noun:      "header",
	Path:      "/api/header",
	Singleton: true,
	Fields: []crud.Field{
		{Name: "logo", Label: "Logo URL"},
		{Name: "heading", Label: "Heading"},
		{Name: "paragraph", Label: "Paragraph"},
		{Name: "buttonText", Label: "Button text"},
		{Name: "buttonLink", Label: "Button link"},
		{Name: "button2Text", Label: "Second button text"},
		{Name: "button2Link", Label: "Second button link"},
		{Name: "menuItems", Label: "Menu (one \"label | link\" per line)"},
	},
	ImageField: "logo",
	ID:         func(Header) string { return "header" },
	ToDraft: func(h Header) crud.Draft {
		return crud.Draft{
			"logo":        h.Logo,
			"heading":     h.Heading,
			"paragraph":   h.Paragraph,
			"buttonText":  h.ButtonText,
			"buttonLink":  h.ButtonLink,
			"button2Text": h.Button2Text,
			"button2Link": h.Button2Link,
			"menuItems":   FormatMenu(h.MenuItems),
		}
	},
	FromDraft: func(d crud.Draft) (any, error) {
		menu, err := ParseMenu(d["menuItems"])
		if err != nil {
			return nil, err
		}
		return Header{
			Logo:        trim(d, "logo"),
			Heading:     d["heading"],
			Paragraph:   d["paragraph"],
			ButtonText:  trim(d, "buttonText"),
			ButtonLink:  trim(d, "buttonLink"),
			Button2Text: trim(d, "button2Text"),
			Button2Link: trim(d, "button2Link"),
			MenuItems:   menu,
		}, nil
	},
	Describe: func(h Header) string {
		return fmt.Sprintf("%s  (%d menu items)", h.Heading, len(h.MenuItems))
	},
}
