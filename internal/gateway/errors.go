package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the repository does not exist or was deleted.
	ErrNotFound = errors.New("repository not found")
	// ErrRateLimited is returned when the API refuses the call because of quota.
	ErrRateLimited = errors.New("API rate limit exceeded")
)

// StatusError is returned for any other unexpected API status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
