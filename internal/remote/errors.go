package remote

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a sync is attempted without a complete
// remote target (owner, repository, and access token). It is reported
// before any network activity happens.
var ErrNotConfigured = errors.New("remote sync is not configured")

// AuthError indicates the remote rejected the access token.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "auth error: " + e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ConflictError indicates a document write kept failing with a version
// conflict after the bounded retry was exhausted.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict writing %s after retry", e.Path)
}

// APIError is any other non-2xx response from the remote service, carrying
// the human-readable message it returned.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote API error (%d) on %s: %s", e.StatusCode, e.Path, e.Message)
}
