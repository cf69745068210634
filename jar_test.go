package authdash

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestRelayJar(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "authdash_session", Value: "ours"})
	r.AddCookie(&http.Cookie{Name: "connect.sid", Value: "theirs"})
	rec := httptest.NewRecorder()

	jar := newRelayJar(rec, r, "authdash_session")
	api, _ := url.Parse("http://api.example.com/api/auth/me")

	cookies := jar.Cookies(api)
	if len(cookies) != 1 || cookies[0].Name != "connect.sid" || cookies[0].Value != "theirs" {
		t.Fatalf("Cookies() = %v", cookies)
	}

	jar.SetCookies(api, []*http.Cookie{
		{Name: "connect.sid", Value: "rotated", Domain: "api.example.com", Path: "/", HttpOnly: true},
	})
	if got := jar.Cookies(api); len(got) != 1 || got[0].Value != "rotated" {
		t.Errorf("Cookies() after SetCookies = %v", got)
	}

	relayed := rec.Result().Cookies()
	if len(relayed) != 1 {
		t.Fatalf("relayed cookies = %v", relayed)
	}
	if relayed[0].Value != "rotated" || relayed[0].Domain != "" || !relayed[0].HttpOnly {
		t.Errorf("relayed cookie = %+v", relayed[0])
	}

	jar.SetCookies(api, []*http.Cookie{{Name: "connect.sid", MaxAge: -1}})
	if got := jar.Cookies(api); len(got) != 0 {
		t.Errorf("expired cookie still sent: %v", got)
	}
}

func TestRelayJar_CookiesCoverTheWholeSite(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"scoped to the api prefix", &http.Cookie{Name: "api_sid", Value: "v", Path: "/api"}},
		{"no path", &http.Cookie{Name: "api_sid", Value: "v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/dashboard/username", nil)
			rec := httptest.NewRecorder()
			jar := newRelayJar(rec, r)
			api, _ := url.Parse("http://api.example.com/api/auth/login")

			jar.SetCookies(api, []*http.Cookie{tt.cookie})

			relayed := rec.Result().Cookies()
			if len(relayed) != 1 {
				t.Fatalf("relayed cookies = %v", relayed)
			}
			if relayed[0].Path != "/" {
				t.Errorf("relayed path = %q, want /", relayed[0].Path)
			}
			if tt.cookie.Path == "/" {
				t.Error("the API's cookie must not be modified")
			}
		})
	}
}
