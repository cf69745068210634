package authdash

import (
	"context"
	"errors"
	"net/http"

	"github.com/panyam/authdash/client"
)

var (
	// ErrUnchangedUsername is shown when a rename keeps the same name
	ErrUnchangedUsername = errors.New("You have not changed your username.")

	// ErrOAuthUser is shown when an OAuth account tries to set a password
	ErrOAuthUser = errors.New("Password changes are not available for accounts linked to Google or Github")
)

const formExpiredMessage = "Your form has expired, please try again"

// SubmitFunc sends the one API request of a flow and applies its result to
// the session. It returns where to go next and the message to show.
type SubmitFunc func(ctx context.Context, api *client.Client, values Values) (redirect, msg string, err error)

// RenderFunc redraws a flow's form after a failed or toggled submission
type RenderFunc func(w http.ResponseWriter, r *http.Request, form *FormView, status int)

// Flow is one form submission: validate locally, send a single request,
// then notify and update the session
type Flow struct {
	Schema       *Schema
	Action       string
	DefaultError string

	// Check runs after validation and before the request. A non nil error is
	// shown as is and nothing is sent.
	Check func(r *http.Request, values Values) error

	// Disable reports whether the submit control must render disabled for values
	Disable func(r *http.Request, values Values) bool

	// Message turns a failed request into the toast text. Defaults to
	// client.Message.
	Message func(err error, defaultMsg string) string

	Submit SubmitFunc
	Render RenderFunc
}

// flowHandler runs f for a request
func (a *App) flowHandler(f *Flow) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		visible, toggled := parseVisibility(r, f.Schema)
		values := f.Schema.Parse(r)
		view := func(errs FieldErrors) *FormView {
			fv := a.formView(r, f.Schema, f.Action, values, errs, visible)
			if f.Disable != nil && f.Disable(r, values) {
				fv.CanSubmit = false
			}
			return fv
		}

		if toggled != "" {
			f.Render(w, r, view(nil), http.StatusOK)
			return
		}

		if errs := f.Schema.Validate(values); len(errs) > 0 {
			f.Render(w, r, view(errs), http.StatusUnprocessableEntity)
			return
		}

		sid := a.Store.ID(ctx)
		if err := a.CSRF.Verify(r.PostFormValue(formKeyCSRF), sid); err != nil {
			a.Logger.Warn("rejected form token", "form", f.Schema.Name, "err", err)
			a.Toasts.Error(ctx, formExpiredMessage)
			f.Render(w, r, view(nil), http.StatusForbidden)
			return
		}

		if f.Check != nil {
			if err := f.Check(r, values); err != nil {
				a.Toasts.Error(ctx, err.Error())
				f.Render(w, r, view(nil), http.StatusUnprocessableEntity)
				return
			}
		}

		release, err := a.InFlight.Acquire(sid, f.Schema.Name)
		if err != nil {
			a.Toasts.Error(ctx, err.Error())
			fv := view(nil)
			fv.SetSubmitting(true)
			f.Render(w, r, fv, http.StatusConflict)
			return
		}
		redirect, msg, err := f.Submit(ctx, a.api(w, r), values)
		release()

		if err != nil {
			a.Logger.Warn("request failed", "form", f.Schema.Name, "err", err)
			message := f.Message
			if message == nil {
				message = client.Message
			}
			a.Toasts.Error(ctx, message(err, f.DefaultError))
			f.Render(w, r, view(nil), http.StatusUnprocessableEntity)
			return
		}
		if msg != "" {
			a.Toasts.Success(ctx, msg)
		}
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	})
}

func (a *App) loginFlow() http.Handler {
	return a.flowHandler(&Flow{
		Schema:       LoginSchema,
		Action:       "/login",
		DefaultError: "An error occurred during login",
		Render:       a.renderLogin,
		Submit: func(ctx context.Context, api *client.Client, values Values) (string, string, error) {
			resp, err := api.Login(ctx, client.LoginRequest{
				Email:    values["email"],
				Password: values["password"],
			})
			if err != nil {
				return "", "", err
			}
			if err := a.Store.SetUser(ctx, resp.User); err != nil {
				return "", "", err
			}
			return "/dashboard", resp.Msg, nil
		},
	})
}

func (a *App) registerFlow() http.Handler {
	return a.flowHandler(&Flow{
		Schema:       RegisterSchema,
		Action:       "/register",
		DefaultError: "An error occurred during registration",
		Render:       a.renderRegister,
		Submit: func(ctx context.Context, api *client.Client, values Values) (string, string, error) {
			resp, err := api.Register(ctx, client.RegisterRequest{
				Username: values["username"],
				Email:    values["email"],
				Password: values["password"],
			})
			if err != nil {
				return "", "", err
			}
			if err := a.Store.SetUser(ctx, resp.User); err != nil {
				return "", "", err
			}
			return "/dashboard", resp.Msg, nil
		},
	})
}

// renderModal redraws the dashboard with the named modal showing form
func (a *App) renderModal(name string) RenderFunc {
	return func(w http.ResponseWriter, r *http.Request, form *FormView, status int) {
		a.renderDashboard(w, r, a.newModal(r, name, form), status)
	}
}

func (a *App) usernameUnchanged(r *http.Request, values Values) bool {
	u := a.Store.User(r.Context())
	return u != nil && values["username"] == u.Username
}

func (a *App) changeUsernameFlow() http.Handler {
	return a.flowHandler(&Flow{
		Schema:       ChangeUsernameSchema,
		Action:       "/dashboard/username",
		DefaultError: client.DefaultErrorMessage,
		Render:       a.renderModal("change-username"),
		Disable:      a.usernameUnchanged,
		Check: func(r *http.Request, values Values) error {
			if a.usernameUnchanged(r, values) {
				return ErrUnchangedUsername
			}
			return nil
		},
		Submit: func(ctx context.Context, api *client.Client, values Values) (string, string, error) {
			resp, err := api.ChangeUsername(ctx, values["username"])
			if err != nil {
				return "", "", err
			}
			name := resp.NewUsername
			if name == "" {
				name = values["username"]
			}
			a.Store.UpdateUsername(ctx, name)
			return "/dashboard", resp.Msg, nil
		},
	})
}

func (a *App) changePasswordFlow() http.Handler {
	return a.flowHandler(&Flow{
		Schema:       ChangePasswordSchema,
		Action:       "/dashboard/password",
		DefaultError: client.DefaultErrorMessage,
		Render:       a.renderModal("change-password"),
		Check: func(r *http.Request, values Values) error {
			if u := a.Store.User(r.Context()); u != nil && u.IsOAuth() {
				return ErrOAuthUser
			}
			return nil
		},
		Submit: func(ctx context.Context, api *client.Client, values Values) (string, string, error) {
			resp, err := api.ChangePassword(ctx, client.ChangePasswordRequest{
				CurrentPassword: values["currentPassword"],
				NewPassword:     values["newPassword"],
			})
			if err != nil {
				return "", "", err
			}
			if err := a.Store.ClearUser(ctx); err != nil {
				return "", "", err
			}
			return "/login", resp.Msg, nil
		},
	})
}

func (a *App) deleteAccountFlow() http.Handler {
	return a.flowHandler(&Flow{
		Schema:       DeleteAccountSchema,
		Action:       "/dashboard/delete",
		DefaultError: client.DefaultErrorMessage,
		Render:       a.renderModal("delete-account"),
		Submit: func(ctx context.Context, api *client.Client, values Values) (string, string, error) {
			resp, err := api.DeleteAccount(ctx)
			if err != nil {
				return "", "", err
			}
			if err := a.Store.ClearUser(ctx); err != nil {
				return "", "", err
			}
			return "/login", resp.Msg, nil
		},
	})
}

// LogoutSchema is the navbar's field-less logout form
var LogoutSchema = &Schema{Name: "logout"}

func (a *App) logoutFlow() http.Handler {
	return a.flowHandler(&Flow{
		Schema:       LogoutSchema,
		Action:       "/logout",
		DefaultError: "An error occurred",
		Message:      client.ServerMessage,
		Render: func(w http.ResponseWriter, r *http.Request, form *FormView, status int) {
			// no page of its own, the toast shows up on the dashboard
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		},
		Submit: func(ctx context.Context, api *client.Client, values Values) (string, string, error) {
			resp, err := api.Logout(ctx)
			if err != nil {
				return "", "", err
			}
			if err := a.Store.ClearUser(ctx); err != nil {
				return "", "", err
			}
			return "/login", resp.Msg, nil
		},
	})
}
