package authdash

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/panyam/authdash/client"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page backgrounds
const (
	bgHome      = "#0c1a21"
	bgLogin     = "linear-gradient(180deg, #667e85 0%, rgba(12, 26, 33, 0.73) 100%)"
	bgRegister  = "linear-gradient(220deg, #667e85 0%, rgba(12, 26, 33, 0.73) 100%)"
	bgDashboard = "linear-gradient(240deg, #667e85 0%, #0c1a21 100%)"
	bgAbout     = "linear-gradient(220deg, #26434e 0%, rgba(24, 42, 51, 0.82) 100%)"
	bgNotFound  = "linear-gradient(260deg, #537079 0%, #0c1a21 100%)"
)

// pageData is handed to every template
type pageData struct {
	Title      string
	Background string
	// StartBackground is where the page transition starts from
	StartBackground string

	User   *client.User
	Toasts []Notification
	CSRF   string

	// auth pages
	Form       *FormView
	Heading    string
	SwitchText string
	SwitchLink string
	SwitchName string
	Providers  []providerLink

	// dashboard
	Modal *Modal

	// not found
	BackURL string
}

type providerLink struct {
	Name  string
	Label string
	URL   string
}

// CanChangePassword is false for accounts managed by an OAuth provider
func (p *pageData) CanChangePassword() bool {
	return p.User != nil && !p.User.IsOAuth()
}

// Templates holds one parsed template set per page
type Templates struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"css": func(s string) template.CSS { return template.CSS(s) },
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*Templates, error) {
	return loadTemplates(templateFS)
}

func loadTemplates(fsys fs.FS) (*Templates, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	t := &Templates{pages: map[string]*template.Template{}}
	for _, page := range []string{"home", "auth", "dashboard", "about", "notfound"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(fsys, "templates/"+page+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		t.pages[page] = clone
	}
	return t, nil
}

// Render executes page into w with status. Output is buffered so a template
// failure never leaves a half written page.
func (t *Templates) Render(w http.ResponseWriter, page string, status int, data *pageData) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// MustLoadTemplates is LoadTemplates that panics on a parse error
func MustLoadTemplates() *Templates {
	t, err := LoadTemplates()
	if err != nil {
		panic(err)
	}
	return t
}
