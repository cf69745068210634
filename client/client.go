package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single API call unless overridden
const DefaultTimeout = 15 * time.Second

// Client talks to the authentication API
type Client struct {
	baseURL       string
	userAgent     string
	httpClient    *http.Client
	baseTransport http.RoundTripper
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /user/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MessageResponse is the common success body carrying a user facing message
type MessageResponse struct {
	Msg string `json:"msg"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Msg  string `json:"msg"`
	User *User  `json:"user"`
}

// ChangeUsernameResponse is returned by POST /user/change-username
type ChangeUsernameResponse struct {
	Msg         string `json:"msg"`
	NewUsername string `json:"newUsername"`
}

type meResponse struct {
	User *User `json:"user"`
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTransport sets a custom base transport (for connection pooling, proxies, etc.)
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.baseTransport = transport
	}
}

// WithTimeout bounds each API call. Zero disables the timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent sent to the API
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		userAgent:     "authdash",
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		baseTransport: http.DefaultTransport,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.Transport = &HeaderTransport{
		Base:      c.baseTransport,
		UserAgent: c.userAgent,
	}
	return c
}

// WithJar returns a copy of the client whose requests read and store
// cookies through jar. The receiver is left untouched so a shared client can
// be bound to a per-request jar.
func (c *Client) WithJar(jar http.CookieJar) *Client {
	hc := *c.httpClient
	hc.Jar = jar
	out := *c
	out.httpClient = &hc
	return &out
}

// ProviderURL is the full-page redirect target that starts OAuth with provider
func (c *Client) ProviderURL(provider AuthProvider) string {
	return c.baseURL + "/auth/" + string(provider)
}

// Me returns the user the API associates with the current credentials.
// A nil user with a nil error means the API answered but knows no user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out meResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a local account and logs it in
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the API session
func (c *Client) Logout(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeUsername renames the current user
func (c *Client) ChangeUsername(ctx context.Context, username string) (*ChangeUsernameResponse, error) {
	var out ChangeUsernameResponse
	body := map[string]string{"username": username}
	if err := c.do(ctx, http.MethodPost, "/user/change-username", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the password of a local account
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/user/change-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes the current user
func (c *Client) DeleteAccount(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/user/delete-account", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes the JSON response into out.
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		// error bodies are not always JSON
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from server: %w", err)
	}
	return nil
}
