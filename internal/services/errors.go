// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired reports a 401 from any backend service. The session
	// is invalidated through the unauthorized hook before this is returned;
	// callers only need to send the visitor back to the login view.
	ErrSessionExpired = errors.New("session expired")

	// ErrProfileNotFound covers both a 404 and the profile service's
	// undocumented 500-for-missing-profile behavior.
	ErrProfileNotFound = errors.New("profile not found")
)

// APIError is the normalized form of a backend error response. Services do
// not recover errors; they normalize and return them.
type APIError struct {
	Status      int
	Message     string
	Suggestions []string // username suggestions from the auth service
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Is lets errors.Is(err, ErrSessionExpired) match any 401, so the uniform
// session-invalidation policy holds no matter which service produced it.
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.Status == http.StatusUnauthorized
}

// AsAPIError unwraps err to the normalized backend error, if there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

func IsForbidden(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status == http.StatusForbidden
	}
	return false
}
