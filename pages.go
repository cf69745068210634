package authdash

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/panyam/authdash/client"
)

var providerLabels = map[client.AuthProvider]string{
	client.ProviderGoogle: "Google",
	client.ProviderGithub: "Github",
}

func oauthLinks() []providerLink {
	out := make([]providerLink, 0, len(client.OAuthProviders))
	for _, p := range client.OAuthProviders {
		out = append(out, providerLink{Name: string(p), Label: providerLabels[p], URL: "/oauth/" + string(p)})
	}
	return out
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "home", http.StatusOK, &pageData{Title: "Home", Background: bgHome})
}

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	a.renderLogin(w, r, a.formView(r, LoginSchema, "/login", nil, nil, nil), http.StatusOK)
}

func (a *App) renderLogin(w http.ResponseWriter, r *http.Request, form *FormView, status int) {
	a.render(w, r, "auth", status, &pageData{
		Title:      "Login",
		Background: bgLogin,
		Form:       form,
		Heading:    "Login to your account",
		SwitchText: "Don't have an account?",
		SwitchLink: "/register",
		SwitchName: "Register",
		Providers:  oauthLinks(),
	})
}

func (a *App) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	a.renderRegister(w, r, a.formView(r, RegisterSchema, "/register", nil, nil, nil), http.StatusOK)
}

func (a *App) renderRegister(w http.ResponseWriter, r *http.Request, form *FormView, status int) {
	a.render(w, r, "auth", status, &pageData{
		Title:      "Register",
		Background: bgRegister,
		Form:       form,
		Heading:    "Register your account",
		SwitchText: "Already have an account?",
		SwitchLink: "/login",
		SwitchName: "Login",
		Providers:  oauthLinks(),
	})
}

// handleOAuth hands the browser to the API's provider redirect. The local
// session is dropped so it is resolved afresh when the browser comes back.
func (a *App) handleOAuth(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	if !client.IsOAuthProvider(provider) {
		a.handleNotFound(w, r)
		return
	}
	if err := a.Store.Reset(r.Context()); err != nil {
		a.Logger.Warn("failed to reset session before oauth", "provider", provider, "err", err)
	}
	http.Redirect(w, r, a.API.ProviderURL(client.AuthProvider(provider)), http.StatusFound)
}

// modalSpec describes the dashboard modals
type modalSpec struct {
	Title  string
	Schema *Schema
	Action string
}

var dashboardModals = map[string]modalSpec{
	"change-username": {Title: "your current username:", Schema: ChangeUsernameSchema, Action: "/dashboard/username"},
	"change-password": {Title: "change password", Schema: ChangePasswordSchema, Action: "/dashboard/password"},
	"delete-account":  {Title: "are you sure?", Schema: DeleteAccountSchema, Action: "/dashboard/delete"},
}

// newModal builds the named modal hosting form. A nil form gets an empty one.
func (a *App) newModal(r *http.Request, name string, form *FormView) *Modal {
	spec, ok := dashboardModals[name]
	if !ok {
		return nil
	}
	if name == "change-password" {
		if u := a.Store.User(r.Context()); u != nil && u.IsOAuth() {
			return nil
		}
	}
	if form == nil {
		form = a.formView(r, spec.Schema, spec.Action, nil, nil, nil)
	}
	m := &Modal{Name: name, Title: spec.Title, Form: form}
	m.DisableClose = a.InFlight.Busy(a.Store.ID(r.Context()), spec.Schema.Name)
	if m.DisableClose {
		form.SetSubmitting(true)
	}
	m.Open()
	return m
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	modal := a.newModal(r, q.Get("modal"), nil)

	if modal != nil && q.Has("close") {
		trigger, err := ParseCloseTrigger(q.Get("close"))
		if err == nil && modal.RequestClose(trigger) {
			modal.Finish()
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	a.renderDashboard(w, r, modal, http.StatusOK)
}

func (a *App) renderDashboard(w http.ResponseWriter, r *http.Request, modal *Modal, status int) {
	a.render(w, r, "dashboard", status, &pageData{
		Title:      "Dashboard",
		Background: bgDashboard,
		Modal:      modal,
	})
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "about", http.StatusOK, &pageData{Title: "About", Background: bgAbout})
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "notfound", http.StatusNotFound, &pageData{
		Title:      "Not found",
		Background: bgNotFound,
		BackURL:    backURL(r),
	})
}

// backURL is the same host referer, else the home page
func backURL(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && !strings.EqualFold(u.Host, r.Host)) {
		return "/"
	}
	if u.Path == "" {
		u.Path = "/"
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		return "/"
	}
	return back
}
