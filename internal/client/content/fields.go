package content

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultRating seeds new testimonials.
const DefaultRating = 5

// SplitTags turns "a, b ,c" into ["a","b","c"], dropping empty entries.
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags is the inverse of SplitTags for editing.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ratingRules bound a rating to 1..5. Required makes ozzo check zero too.
var ratingRules = []validation.Rule{
	validation.Required.Error("must be between 1 and 5"),
	validation.Min(1),
	validation.Max(5),
}

// ParseRating reads a 1..5 rating; blank means DefaultRating.
func ParseRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRating, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerrors.NewValidation("Invalid rating",
			goerrors.FieldError{Field: "rating", Message: "must be a whole number"})
	}
	if err := validation.Validate(n, ratingRules...); err != nil {
		return 0, goerrors.NewValidation("Invalid rating",
			goerrors.FieldError{Field: "rating", Message: err.Error()})
	}
	return n, nil
}

// FormatRating renders a rating for editing; zero means unset.
func FormatRating(n int) string {
	if n == 0 {
		n = DefaultRating
	}
	return strconv.Itoa(n)
}

const menuSep = "|"

// ErrBlankMenuItem is the message shown when a menu line lacks a label or link.
const ErrBlankMenuItem = "Menu items cannot have blank label or link. Please fill all fields or remove empty menu items."

// ParseMenu reads one "label | link" pair per line. Blank lines are skipped;
// a line with a missing label or link rejects the whole menu.
func ParseMenu(s string) ([]MenuItem, error) {
	items := []MenuItem{}
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, link, _ := strings.Cut(line, menuSep)
		item := MenuItem{Label: strings.TrimSpace(label), Link: strings.TrimSpace(link)}
		if item.Label == "" || item.Link == "" {
			return nil, goerrors.NewValidation(ErrBlankMenuItem,
				goerrors.FieldError{Field: "menuItems", Message: "line " + strconv.Itoa(i+1) + " is incomplete"})
		}
		items = append(items, item)
	}
	return items, nil
}

// FormatMenu renders menu items one "label | link" pair per line.
func FormatMenu(items []MenuItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Label+" "+menuSep+" "+it.Link)
	}
	return strings.Join(lines, "\n")
}
