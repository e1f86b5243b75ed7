// Package guard decides whether a navigation may render a protected view or
// must be redirected, based on the current session.
package guard

import (
	"path"
	"strings"
)

// Well-known paths.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Session reports whether a token is present.
type Session interface {
	Authenticated() bool
}

// Decision is the outcome of resolving a path.
// Exactly one of View and Redirect is set.
type Decision struct {
	// View is the route that should be rendered.
	View string
	// Redirect is the path the caller must navigate to instead.
	Redirect string
}

// Redirected reports whether the decision is a redirect.
func (d Decision) Redirected() bool { return d.Redirect != "" }

// Guard resolves navigations against a fixed set of protected routes.
type Guard struct {
	session Session
	routes  map[string]struct{}
}

// New returns a Guard protecting routes. The home path is always protected.
func New(session Session, routes ...string) *Guard {
	g := &Guard{session: session, routes: map[string]struct{}{HomePath: {}}}
	for _, r := range routes {
		g.routes[Clean(r)] = struct{}{}
	}
	return g
}

// Resolve checks p against the session state at call time, so a logout
// takes effect on the very next navigation.
func (g *Guard) Resolve(p string) Decision {
	p = Clean(p)

	if !g.session.Authenticated() {
		if p == LoginPath {
			return Decision{View: LoginPath}
		}
		return Decision{Redirect: LoginPath}
	}

	if p == LoginPath {
		return Decision{Redirect: HomePath}
	}
	if _, ok := g.routes[p]; ok {
		return Decision{View: p}
	}
	return Decision{Redirect: HomePath}
}

// Clean normalises a user supplied path: leading slash, no trailing slash,
// lower case.
func Clean(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
