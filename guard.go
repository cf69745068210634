package authdash

import (
	"net/http"
	"strings"
)

// Access says who may see a route
type Access int

const (
	// PublicOnly routes are for visitors without a session user
	PublicOnly Access = iota
	// Protected routes need a session user
	Protected
)

// Route is one entry of the guard's table. A Prefix route also covers
// every path below it.
type Route struct {
	Path   string
	Access Access
	Prefix bool
}

// Outcome is the guard's verdict for a navigation
type Outcome int

const (
	RenderPublic Outcome = iota
	RenderProtected
	RedirectLogin
	RedirectDashboard
	RenderNotFound
)

func (o Outcome) String() string {
	switch o {
	case RenderPublic:
		return "render-public"
	case RenderProtected:
		return "render-protected"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "not-found"
	}
}

// Decision is the outcome plus, for redirects, where to go
type Decision struct {
	Outcome  Outcome
	Location string
}

// IsRedirect reports whether the decision sends the browser elsewhere
func (d Decision) IsRedirect() bool {
	return d.Outcome == RedirectLogin || d.Outcome == RedirectDashboard
}

// DefaultRoutes is the route table of the authdash front-end
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Access: PublicOnly},
		{Path: "/register", Access: PublicOnly},
		{Path: "/login", Access: PublicOnly},
		{Path: "/oauth", Access: PublicOnly, Prefix: true},
		{Path: "/dashboard", Access: Protected, Prefix: true},
		{Path: "/about", Access: Protected},
		{Path: "/logout", Access: Protected},
	}
}

// RouteGuard decides between rendering and redirecting based only on
// whether the session has a user
type RouteGuard struct {
	Routes       []Route
	LoginURL     string
	DashboardURL string

	// HasUser reports whether the request's session holds a user
	HasUser func(r *http.Request) bool
}

/**
 * Ensures that config values have reasonable defaults.
 */
func (g *RouteGuard) EnsureReasonableDefaults() {
	if g.Routes == nil {
		g.Routes = DefaultRoutes()
	}
	if g.LoginURL == "" {
		g.LoginURL = "/login"
	}
	if g.DashboardURL == "" {
		g.DashboardURL = "/dashboard"
	}
}

// Lookup finds the route covering path. Exact matches win over prefixes.
func (g *RouteGuard) Lookup(path string) (Route, bool) {
	var best Route
	found := false
	for _, rt := range g.Routes {
		if rt.Path == path {
			return rt, true
		}
		if rt.Prefix && strings.HasPrefix(path, strings.TrimSuffix(rt.Path, "/")+"/") {
			if !found || len(rt.Path) > len(best.Path) {
				best, found = rt, true
			}
		}
	}
	return best, found
}

// Decide returns the outcome for navigating to path
func (g *RouteGuard) Decide(path string, hasUser bool) Decision {
	g.EnsureReasonableDefaults()
	rt, ok := g.Lookup(path)
	if !ok {
		return Decision{Outcome: RenderNotFound}
	}
	switch rt.Access {
	case Protected:
		if !hasUser {
			return Decision{Outcome: RedirectLogin, Location: g.LoginURL}
		}
		return Decision{Outcome: RenderProtected}
	default:
		if hasUser {
			return Decision{Outcome: RedirectDashboard, Location: g.DashboardURL}
		}
		return Decision{Outcome: RenderPublic}
	}
}

// Middleware redirects requests the guard does not allow. Paths outside the
// table pass through untouched.
func (g *RouteGuard) Middleware(next http.Handler) http.Handler {
	g.EnsureReasonableDefaults()
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			hasUser := g.HasUser != nil && g.HasUser(r)
			d := g.Decide(r.URL.Path, hasUser)
			if d.IsRedirect() {
				http.Redirect(w, r, d.Location, redirectStatus(r))
				return
			}
			next.ServeHTTP(w, r)
		},
	)
}

// redirectStatus turns a POST into a GET on the redirect target
func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
