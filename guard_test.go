package authdash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouteGuard_Decide(t *testing.T) {
	g := &RouteGuard{}
	tests := []struct {
		path     string
		hasUser  bool
		want     Outcome
		location string
	}{
		{"/", false, RenderPublic, ""},
		{"/register", false, RenderPublic, ""},
		{"/login", false, RenderPublic, ""},
		{"/", true, RedirectDashboard, "/dashboard"},
		{"/register", true, RedirectDashboard, "/dashboard"},
		{"/login", true, RedirectDashboard, "/dashboard"},
		{"/dashboard", false, RedirectLogin, "/login"},
		{"/about", false, RedirectLogin, "/login"},
		{"/dashboard/username", false, RedirectLogin, "/login"},
		{"/logout", false, RedirectLogin, "/login"},
		{"/dashboard", true, RenderProtected, ""},
		{"/about", true, RenderProtected, ""},
		{"/oauth/google", true, RedirectDashboard, "/dashboard"},
		{"/nowhere", false, RenderNotFound, ""},
		{"/nowhere", true, RenderNotFound, ""},
		{"/dashboardx", true, RenderNotFound, ""},
	}
	for _, tt := range tests {
		d := g.Decide(tt.path, tt.hasUser)
		if d.Outcome != tt.want || d.Location != tt.location {
			t.Errorf("Decide(%q, %v) = %v %q, want %v %q", tt.path, tt.hasUser, d.Outcome, d.Location, tt.want, tt.location)
		}
	}
}

func TestRouteGuard_Middleware(t *testing.T) {
	hasUser := false
	g := &RouteGuard{HasUser: func(r *http.Request) bool { return hasUser }}
	h := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		method   string
		path     string
		user     bool
		status   int
		location string
	}{
		{http.MethodGet, "/dashboard", false, http.StatusFound, "/login"},
		{http.MethodPost, "/dashboard/delete", false, http.StatusSeeOther, "/login"},
		{http.MethodGet, "/login", true, http.StatusFound, "/dashboard"},
		{http.MethodPost, "/login", true, http.StatusSeeOther, "/dashboard"},
		{http.MethodGet, "/dashboard", true, http.StatusTeapot, ""},
		{http.MethodGet, "/", false, http.StatusTeapot, ""},
		{http.MethodGet, "/missing", false, http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		hasUser = tt.user
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s %s (user=%v) status = %d, want %d", tt.method, tt.path, tt.user, rec.Code, tt.status)
		}
		if got := rec.Header().Get("Location"); got != tt.location {
			t.Errorf("%s %s (user=%v) Location = %q, want %q", tt.method, tt.path, tt.user, got, tt.location)
		}
	}
}

func TestRouteGuard_LongestPrefixWins(t *testing.T) {
	g := &RouteGuard{Routes: []Route{
		{Path: "/a", Access: Protected, Prefix: true},
		{Path: "/a/open", Access: PublicOnly, Prefix: true},
	}}
	if d := g.Decide("/a/open/x", false); d.Outcome != RenderPublic {
		t.Errorf("Decide(/a/open/x) = %v", d.Outcome)
	}
	if d := g.Decide("/a/closed", false); d.Outcome != RedirectLogin {
		t.Errorf("Decide(/a/closed) = %v", d.Outcome)
	}
}
