package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/middleware"
	"github.com/atinyakov/siteadmin/internal/models"
	"github.com/atinyakov/siteadmin/internal/service"
)

// maxUploadBody allows a base64 image of service.MaxUploadSize plus the JSON envelope.
const maxUploadBody = service.MaxUploadSize/3*4 + 1<<10

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth      *AuthHandler
	Content   *ContentHandler
	Upload    *UploadHandler
	Analytics *AnalyticsHandler
}

// NewRouter constructs the content backend's HTTP handler.
//
// Routes:
//
//	POST   /api/auth/login                 public
//	GET    /api/<kind>, GET /api/header    public
//	POST   /api/<kind>, PUT/DELETE /api/<kind>/{id}, POST /api/header
//	POST   /api/upload
//	POST   /api/admin/users/create-admin
//	GET    /api/analytics/dashboard
//	GET    /uploads/{id}                   public
//
// Every route outside the public ones requires a bearer token accepted by tokens.
func NewRouter(h Handlers, tokens middleware.TokenValidator, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/uploads/{id}", h.Upload.Serve)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", h.Auth.Login)
		r.Get("/header", h.Content.Header)
		for _, kind := range models.CollectionKinds {
			r.Get("/"+kind, h.Content.List(kind))
		}

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))

			r.Post("/header", h.Content.SaveHeader)
			for _, kind := range models.CollectionKinds {
				r.Post("/"+kind, h.Content.Create(kind))
				r.Put("/"+kind+"/{id}", h.Content.Update(kind))
				r.Delete("/"+kind+"/{id}", h.Content.Delete(kind))
			}

			r.With(chiMiddleware.RequestSize(maxUploadBody)).Post("/upload", h.Upload.Upload)
			r.Post("/admin/users/create-admin", h.Auth.CreateAdmin)
			r.Get("/analytics/dashboard", h.Analytics.Dashboard)
		})
	})

	return r
}
