package service

import (
	"context"

	"github.com/atinyakov/siteadmin/internal/models"
)

// Dashboard holds the landing page counters.
type Dashboard struct {
	Services     int `json:"services"`
	Blogs        int `json:"blogs"`
	Testimonials int `json:"testimonials"`
	Admins       int `json:"admins"`
}

// AnalyticsService aggregates counters across content and admins.
type AnalyticsService struct {
	content *ContentService
	auth    *AuthService
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(content *ContentService, auth *AuthService) *AnalyticsService {
	return &AnalyticsService{content: content, auth: auth}
}

// Dashboard counts services, blogs, testimonials and admins.
func (s *AnalyticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	counts, err := s.content.Count(ctx, models.KindServices, models.KindBlogs, models.KindTestimonials)
	if err != nil {
		return Dashboard{}, err
	}
	admins, err := s.auth.CountAdmins(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Services:     counts[models.KindServices],
		Blogs:        counts[models.KindBlogs],
		Testimonials: counts[models.KindTestimonials],
		Admins:       admins,
	}, nil
}
