// Package common defines shared constants and sentinel errors used across
// the storefront client. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// Transport-level errors.
	ErrAuthExpired = errors.New("authorization expired")
	ErrNetwork     = errors.New("network failure")
	ErrNotFound    = errors.New("not found")

	// Store-level guards, raised before any network call.
	ErrNoSession    = errors.New("no active session")
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// APIError is a non-2xx response from the backend. Message carries the
// backend's own message verbatim so it can be shown in forms and toasts.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Is lets a 404 response match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// UserMessage turns err into the string a store keeps on its error field.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Status)
	case errors.Is(err, ErrNetwork):
		return GenericFailureMessage
	case errors.Is(err, ErrAuthExpired):
		return "session expired, please log in again"
	case errors.Is(err, ErrNoSession):
		return "please log in first"
	case errors.Is(err, ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	default:
		return err.Error()
	}
}

// WipeByteArray zeroes b in place; used for password buffers.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
