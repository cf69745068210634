package authdash

import (
	"net/http"
	"net/url"
	"sync"
)

// relayJar is a per request cookie jar. It hands the browser's cookies to the
// API and relays every cookie the API sets back to the browser.
type relayJar struct {
	w       http.ResponseWriter
	mu      sync.Mutex
	cookies map[string]*http.Cookie
}

// newRelayJar seeds a jar from r, leaving out the cookies named in skip
func newRelayJar(w http.ResponseWriter, r *http.Request, skip ...string) *relayJar {
	jar := &relayJar{w: w, cookies: map[string]*http.Cookie{}}
	excluded := map[string]bool{}
	for _, name := range skip {
		excluded[name] = true
	}
	for _, c := range r.Cookies() {
		if excluded[c.Name] {
			continue
		}
		jar.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return jar
}

// SetCookies relays cookies to the browser. Domain and path are reset so the
// cookie lands on our host and comes back with every page and form.
func (j *relayJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		relayed := *c
		relayed.Domain = ""
		relayed.Path = "/"
		if c.MaxAge < 0 || (c.Value == "" && c.MaxAge == 0 && !c.Expires.IsZero()) {
			delete(j.cookies, c.Name)
		} else {
			j.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
		}
		if j.w != nil {
			http.SetCookie(j.w, &relayed)
		}
	}
}

func (j *relayJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, c)
	}
	return out
}
