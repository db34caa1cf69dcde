package wings

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotInitialized is returned when the Wings client is not initialized.
	ErrClientNotInitialized = errors.New("wings client not initialized")
)

// APIError is a non-success response from the Wings daemon. StatusCode is
// the HTTP status Wings returned; callers map it to a plugin error code.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("wings responded with status %d: %s", e.StatusCode, e.Body)
}
