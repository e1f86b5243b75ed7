package content

import (
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/client/crud"
)

// Screens returns one controller per content route, keyed by route path.
func Screens(client crud.Requester, log *zap.Logger) map[string]crud.Screen {
	return map[string]crud.Screen{
		"/services":       crud.New(Services, client, log),
		"/blogs":          crud.New(Blogs, client, log),
		"/testimonials":   crud.New(Testimonials, client, log),
		"/faq":            crud.New(FAQs, client, log),
		"/portfolio":      crud.New(Portfolio, client, log),
		"/headersettings": crud.New(HeaderSettings, client, log),
	}
}
