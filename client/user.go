// Package client provides a typed HTTP client for the authentication API
// that backs authdash. Requests carry the caller's cookies through an
// http.CookieJar so the API sees the same credentials the browser holds.
package client

// AuthProvider identifies how a user account authenticates
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderGithub AuthProvider = "github"
)

// OAuthProviders lists the federated providers the API can redirect to
var OAuthProviders = []AuthProvider{ProviderGoogle, ProviderGithub}

// User is the account returned by the API
type User struct {
	ID           string       `json:"_id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	Logo         string       `json:"logo"`
	CreatedAt    string       `json:"created_at"`
	AuthProvider AuthProvider `json:"authProvider"`
}

// IsOAuth returns true if the account was created through a federated provider
func (u *User) IsOAuth() bool {
	return u.AuthProvider != ProviderLocal
}

// IsOAuthProvider reports whether name is one of the OAuthProviders
func IsOAuthProvider(name string) bool {
	for _, p := range OAuthProviders {
		if string(p) == name {
			return true
		}
	}
	return false
}
