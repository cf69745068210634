package client

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is shown when neither the caller nor the server supplies one
const DefaultErrorMessage = "An error occurred during the request"

// FieldError is one entry of a server-side validation failure
type FieldError struct {
	Msg string `json:"msg"`
}

// APIError is returned for any non-2xx response from the API
type APIError struct {
	Status int          `json:"-"`
	Msg    string       `json:"msg,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	switch {
	case len(e.Errors) > 0:
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Errors[0].Msg)
	case e.Msg != "":
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Msg)
	default:
		return fmt.Sprintf("api error: HTTP %d", e.Status)
	}
}

// Message picks the text to show a user for err.
//
// The first server validation error wins, then the server's generic msg,
// then defaultMsg. Transport failures always get defaultMsg.
func Message(err error, defaultMsg string) string {
	if defaultMsg == "" {
		defaultMsg = DefaultErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Errors) > 0 {
			return apiErr.Errors[0].Msg
		}
		if apiErr.Msg != "" {
			return apiErr.Msg
		}
	}
	return defaultMsg
}

// ServerMessage is like Message but only looks at the server's generic msg.
// Validation errors are ignored.
func ServerMessage(err error, defaultMsg string) string {
	if defaultMsg == "" {
		defaultMsg = DefaultErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return defaultMsg
}
