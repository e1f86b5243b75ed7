// Package dashboard fetches the landing page counters.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atinyakov/siteadmin/internal/client/crud"
)

// Path is the analytics endpoint.
const Path = "/api/analytics/dashboard"

// Stats holds the number of records per kind.
type Stats struct {
	Services     int `json:"services"`
	Blogs        int `json:"blogs"`
	Testimonials int `json:"testimonials"`
	Admins       int `json:"admins"`
}

// String renders the counters as the dashboard summary.
func (s Stats) String() string {
	return fmt.Sprintf("Services: %d\nBlogs: %d\nTestimonials: %d\nAdmins: %d",
		s.Services, s.Blogs, s.Testimonials, s.Admins)
}

// Fetch loads the counters.
func Fetch(ctx context.Context, client crud.Requester) (Stats, error) {
	var s Stats
	err := client.Do(ctx, http.MethodGet, Path, nil, &s)
	return s, err
}
