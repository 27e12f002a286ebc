package driven

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

// ErrMalformedResponse indicates the listing endpoint returned something other
// than a JSON array of repositories.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned when the GitHub API answers with a non-success status.
type StatusError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *StatusError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, reason)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// ListOptions mirrors the query of the repository listing endpoint.
type ListOptions struct {
	Sort    string
	Type    string
	PerPage int
}

// RepositoryLister defines the driven port for listing a user's repositories.
// A single call performs a single request; retries belong to the caller.
type RepositoryLister interface {
	ListUserRepositories(ctx context.Context, username string, opts ListOptions) ([]model.RepositorySummary, error)
}
