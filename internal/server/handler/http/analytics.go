package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/siteadmin/internal/service"
)

// AnalyticsService defines the counters used by AnalyticsHandler.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (service.Dashboard, error)
}

// AnalyticsHandler serves the dashboard counters.
type AnalyticsHandler struct {
	AnalyticsService AnalyticsService
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.AnalyticsService.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
