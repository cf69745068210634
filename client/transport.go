package client

import (
	"context"
	"net/http"
)

// RequestIDHeader carries the front-end request id to the API
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID returns a context whose outgoing API calls are tagged with id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// HeaderTransport wraps an http.RoundTripper to add the JSON accept header
// and the request id of the originating front-end request
type HeaderTransport struct {
	Base      http.RoundTripper
	UserAgent string
}

// RoundTrip implements http.RoundTripper
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid mutating the original
	req2 := req.Clone(req.Context())
	req2.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		req2.Header.Set("User-Agent", t.UserAgent)
	}
	if id := RequestIDFromContext(req.Context()); id != "" {
		req2.Header.Set(RequestIDHeader, id)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req2)
}
