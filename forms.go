package authdash

import (
	"net/http"
	"regexp"
	"unicode/utf16"
)

// Reserved form keys used by the field views themselves
const (
	formKeyCSRF    = "_csrf"
	formKeyToggle  = "_toggle"
	formKeyVisible = "_visible"
)

// FieldKind is the closed set of input kinds a form can render
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEmail
	FieldPassword
)

// InputType is the HTML input type for the kind
func (k FieldKind) InputType() string {
	switch k {
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	default:
		return "text"
	}
}

// CanToggleVisibility reports whether the field offers a show/hide control
func (k FieldKind) CanToggleVisibility() bool {
	return k == FieldPassword
}

type ruleKind int

const (
	ruleRequired ruleKind = iota
	ruleMin
	ruleMax
	ruleMatches
)

// Rule is one declarative check on a field value
type Rule struct {
	kind    ruleKind
	n       int
	pattern *regexp.Regexp
	Message string
}

// Required fails on an empty value
func Required(msg string) Rule { return Rule{kind: ruleRequired, Message: msg} }

// MinLen fails when the value is shorter than n. Length is counted in UTF-16
// code units, the way browsers count it.
func MinLen(n int, msg string) Rule { return Rule{kind: ruleMin, n: n, Message: msg} }

// MaxLen fails when the value is longer than n UTF-16 code units
func MaxLen(n int, msg string) Rule { return Rule{kind: ruleMax, n: n, Message: msg} }

// Matches fails when the value does not match pattern. Panics on a bad pattern.
func Matches(pattern, msg string) Rule {
	return Rule{kind: ruleMatches, pattern: regexp.MustCompile(pattern), Message: msg}
}

// Check returns true if value satisfies the rule
func (r Rule) Check(value string) bool {
	switch r.kind {
	case ruleRequired:
		return value != ""
	case ruleMin:
		return textLength(value) >= r.n
	case ruleMax:
		return textLength(value) <= r.n
	case ruleMatches:
		return r.pattern.MatchString(value)
	}
	return true
}

func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// FieldSpec describes one input of a form
type FieldSpec struct {
	Name        string
	Label       string
	Placeholder string
	Kind        FieldKind
	Rules       []Rule
}

// Schema is the declarative description of a form
type Schema struct {
	Name   string
	Fields []FieldSpec
}

// Values holds submitted field values by field name
type Values map[string]string

// FieldErrors holds at most one message per field name
type FieldErrors map[string]string

// Validate applies every field's rules in order and keeps the first
// failure for each field. An empty result means the values are valid.
func (s *Schema) Validate(values Values) FieldErrors {
	errs := FieldErrors{}
	for _, f := range s.Fields {
		v := values[f.Name]
		for _, rule := range f.Rules {
			if !rule.Check(v) {
				errs[f.Name] = rule.Message
				break
			}
		}
	}
	return errs
}

// Parse reads the schema's fields from a submitted form
func (s *Schema) Parse(r *http.Request) Values {
	values := Values{}
	for _, f := range s.Fields {
		values[f.Name] = r.PostFormValue(f.Name)
	}
	return values
}

// FieldView is a field as rendered: its spec plus the current value,
// error and visibility
type FieldView struct {
	FieldSpec
	Value    string
	Error    string
	Visible  bool
	Disabled bool
}

// InputType accounts for a revealed password
func (f *FieldView) InputType() string {
	if f.Kind.CanToggleVisibility() && f.Visible {
		return "text"
	}
	return f.Kind.InputType()
}

// Obscured reports whether the value is hidden while typing
func (f *FieldView) Obscured() bool {
	return f.InputType() == "password"
}

// Toggle flips the visibility of a password field. Other kinds ignore it.
func (f *FieldView) Toggle() {
	if f.Kind.CanToggleVisibility() {
		f.Visible = !f.Visible
	}
}

// ToggleLabel is the accessible label of the show/hide control
func (f *FieldView) ToggleLabel() string {
	if f.Visible {
		return "Hide password"
	}
	return "Show password"
}

// ToggleText is the short caption of the show/hide control
func (f *FieldView) ToggleText() string {
	if f.Visible {
		return "Hide"
	}
	return "Show"
}

// FormView is everything a template needs to draw one form
type FormView struct {
	Schema     *Schema
	Action     string
	CSRF       string
	Fields     []*FieldView
	Submitting bool
	// CanSubmit is false when the submit control must render disabled
	CanSubmit bool
}

// NewFormView builds the view for schema populated with values and errs.
// visible lists password fields that are currently revealed.
func NewFormView(schema *Schema, action string, values Values, errs FieldErrors, visible map[string]bool) *FormView {
	fv := &FormView{Schema: schema, Action: action, CanSubmit: true}
	for _, spec := range schema.Fields {
		fv.Fields = append(fv.Fields, &FieldView{
			FieldSpec: spec,
			Value:     values[spec.Name],
			Error:     errs[spec.Name],
			Visible:   visible[spec.Name],
		})
	}
	return fv
}

// Field returns the named field view, or nil
func (fv *FormView) Field(name string) *FieldView {
	for _, f := range fv.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// SetSubmitting disables every control while a submission is in flight
func (fv *FormView) SetSubmitting(submitting bool) {
	fv.Submitting = submitting
	for _, f := range fv.Fields {
		f.Disabled = submitting
	}
	if submitting {
		fv.CanSubmit = false
	}
}

// parseVisibility returns the revealed password fields carried by the form and
// the field whose toggle was pressed, if any. The pressed toggle is already
// applied to the returned set.
func parseVisibility(r *http.Request, schema *Schema) (visible map[string]bool, toggled string) {
	visible = map[string]bool{}
	for _, name := range r.PostForm[formKeyVisible] {
		visible[name] = true
	}
	toggled = r.PostFormValue(formKeyToggle)
	if toggled == "" {
		return visible, ""
	}
	for _, f := range schema.Fields {
		if f.Name == toggled && f.Kind.CanToggleVisibility() {
			visible[toggled] = !visible[toggled]
			return visible, toggled
		}
	}
	return visible, ""
}
