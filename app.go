package authdash

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/panyam/authdash/client"
)

// App is the authdash front-end. Build it with New, then serve Handler().
type App struct {
	router *mux.Router

	// Browser sessions. Must be passed in.
	Session *scs.SessionManager

	// Client for the authentication API. Must be passed in.
	API *client.Client

	Store     *SessionStore
	Guard     *RouteGuard
	Toasts    *Notifications
	CSRF      *CSRF
	InFlight  *InFlight
	Templates *Templates
	Logger    *slog.Logger

	// Optional name used for the CSRF issuer
	AppName string

	// Key for signing form tokens
	CSRFSecretKey string

	// How long a rendered form stays submittable. Defaults to the session lifetime.
	CSRFLifetime time.Duration
}

// New creates an App over a session manager and an API client
func New(sm *scs.SessionManager, api *client.Client) *App {
	return (&App{Session: sm, API: api}).EnsureDefaults()
}

func (a *App) EnsureDefaults() *App {
	if a.AppName == "" {
		a.AppName = "authdash"
	}
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	if a.Session == nil {
		a.Session = scs.New()
	}
	if a.CSRFSecretKey == "" {
		a.CSRFSecretKey = strings.TrimSpace(os.Getenv("AUTHDASH_CSRF_SECRET"))
		if a.CSRFSecretKey == "" {
			a.CSRFSecretKey = "MyTestCSRFSecretKey123456"
		}
	}
	if a.CSRFLifetime <= 0 {
		a.CSRFLifetime = a.Session.Lifetime
		if a.CSRFLifetime <= 0 {
			a.CSRFLifetime = 24 * time.Hour
		}
	}
	if a.Store == nil {
		a.Store = NewSessionStore(a.Session, a.fetchUser)
		a.Store.Logger = a.Logger
	}
	if a.Guard == nil {
		a.Guard = &RouteGuard{}
	}
	if a.Guard.HasUser == nil {
		a.Guard.HasUser = a.Store.HasUser
	}
	a.Guard.EnsureReasonableDefaults()
	if a.Toasts == nil {
		a.Toasts = &Notifications{Session: a.Session}
	}
	if a.CSRF == nil {
		a.CSRF = &CSRF{
			SecretKey: a.CSRFSecretKey,
			Issuer:    fmt.Sprintf("%s-Issuer", a.AppName),
			Lifetime:  a.CSRFLifetime,
		}
	}
	if a.InFlight == nil {
		a.InFlight = NewInFlight()
	}
	if a.Templates == nil {
		a.Templates = MustLoadTemplates()
	}
	return a
}

// Handler returns the full front-end: logging, sessions, routing
func (a *App) Handler() http.Handler {
	a.EnsureDefaults()
	return RequestLogger(a.Logger)(a.Session.LoadAndSave(a.setupRoutes().router))
}

func (a *App) setupRoutes() *App {
	if a.router != nil {
		return a
	}
	r := mux.NewRouter()

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	pages := r.NewRoute().Subrouter()
	pages.Use(a.Store.Middleware, a.Guard.Middleware)

	pages.HandleFunc("/", a.handleHome).Methods(http.MethodGet)
	pages.HandleFunc("/login", a.handleLoginPage).Methods(http.MethodGet)
	pages.Handle("/login", a.loginFlow()).Methods(http.MethodPost)
	pages.HandleFunc("/register", a.handleRegisterPage).Methods(http.MethodGet)
	pages.Handle("/register", a.registerFlow()).Methods(http.MethodPost)
	pages.HandleFunc("/oauth/{provider}", a.handleOAuth).Methods(http.MethodGet)

	pages.HandleFunc("/dashboard", a.handleDashboard).Methods(http.MethodGet)
	pages.Handle("/dashboard/username", a.changeUsernameFlow()).Methods(http.MethodPost)
	pages.Handle("/dashboard/password", a.changePasswordFlow()).Methods(http.MethodPost)
	pages.Handle("/dashboard/delete", a.deleteAccountFlow()).Methods(http.MethodPost)
	pages.HandleFunc("/about", a.handleAbout).Methods(http.MethodGet)
	pages.Handle("/logout", a.logoutFlow()).Methods(http.MethodPost)

	r.NotFoundHandler = a.Store.Middleware(http.HandlerFunc(a.handleNotFound))
	a.router = r
	return a
}

// api binds the shared client to the cookies of this request
func (a *App) api(w http.ResponseWriter, r *http.Request) *client.Client {
	return a.API.WithJar(newRelayJar(w, r, a.Session.Cookie.Name))
}

func (a *App) fetchUser(w http.ResponseWriter, r *http.Request) (*client.User, error) {
	if a.API == nil {
		return nil, fmt.Errorf("no API client configured")
	}
	return a.api(w, r).Me(r.Context())
}

// render fills the session derived parts of data and writes the page
func (a *App) render(w http.ResponseWriter, r *http.Request, page string, status int, data *pageData) {
	ctx := r.Context()
	data.User = a.Store.User(ctx)
	data.StartBackground = a.Store.PageBackground(ctx, data.Background)
	if data.User != nil {
		token, err := a.CSRF.Issue(a.Store.ID(ctx))
		if err != nil {
			a.Logger.Error("failed to issue form token", "err", err)
		}
		data.CSRF = token
	}
	data.Toasts = a.Toasts.Drain(ctx)
	if err := a.Templates.Render(w, page, status, data); err != nil {
		a.Logger.Error("failed to render page", "page", page, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// formView builds a form carrying a token for the current session
func (a *App) formView(r *http.Request, schema *Schema, action string, values Values, errs FieldErrors, visible map[string]bool) *FormView {
	fv := NewFormView(schema, action, values, errs, visible)
	token, err := a.CSRF.Issue(a.Store.ID(r.Context()))
	if err != nil {
		a.Logger.Error("failed to issue form token", "form", schema.Name, "err", err)
	}
	fv.CSRF = token
	return fv
}
