// Package authdash is a server rendered front-end for an account
// authentication API. It serves the public pages (home, login, register),
// the protected pages (dashboard, about) and a 404 page, and turns every
// account action into exactly one call against the API.
//
// # Architecture
//
// Session: each browser gets a SessionStore entry backed by scs. The user is
// fetched from the API once per session (GET /auth/me) and afterwards only
// changes through the flows below. A failed fetch means "no user".
//
// Guard: RouteGuard maps a path to public-only or protected and redirects
// to /login or /dashboard based only on whether the session has a user.
//
// Flows: login, register, change-username, change-password, delete-account
// and logout all run through the same Flow runner. The submitted values are
// validated against a Schema, the form token is checked, a per session lock
// makes sure only one request per form is in flight, and the outcome is
// reported as a toast.
//
// # Basic Usage
//
//	sm := scs.New()
//	api := client.New("http://localhost:8080/api", client.WithTimeout(15*time.Second))
//	app := authdash.New(sm, api)
//	http.ListenAndServe(":3000", app.Handler())
//
// Session data can be kept in memory, on disk, in sqlite or postgres (via
// gorm) or in Cloud Datastore. See the stores package and cmd/authdash.
package authdash
