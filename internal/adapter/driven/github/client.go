// Package github implements the RepositoryLister port using the go-github library.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepositoryLister = (*Client)(nil)

// Client implements the driven.RepositoryLister port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is non-empty)
//
// The portfolio only reads public data, so an empty token is valid; it just
// gets the lower unauthenticated rate limit.
func NewClient(token string, timeout time.Duration) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = timeout

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListUserRepositories performs exactly one request for the first page of the
// user's repositories. Non-success statuses are returned as *driven.StatusError
// and bodies that are not a JSON array wrap driven.ErrMalformedResponse.
func (c *Client) ListUserRepositories(ctx context.Context, username string, opts driven.ListOptions) ([]model.RepositorySummary, error) {
	ghOpts := &gh.RepositoryListByUserOptions{
		Type: opts.Type,
		Sort: opts.Sort,
		ListOptions: gh.ListOptions{
			PerPage: opts.PerPage,
		},
	}

	repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, ghOpts)
	if err != nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", username, mapError(err))
	}

	// go-github leaves the slice nil for a "null" or empty body; only a JSON
	// array (even an empty one) counts as a listing.
	if repos == nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", username, driven.ErrMalformedResponse)
	}

	logRateLimit(resp, "users/"+username+"/repos", len(repos))

	summaries := make([]model.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, mapRepository(r))
	}

	return summaries, nil
}

// mapError turns go-github's error types into the port's error vocabulary.
// Anything unrecognised is returned unchanged.
func mapError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", driven.ErrMalformedResponse, err)
	}

	if resp := errorResponse(err); resp != nil {
		return &driven.StatusError{
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
			Err:        err,
		}
	}

	return err
}

// errorResponse extracts the HTTP response carried by go-github's error types.
func errorResponse(err error) *http.Response {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Response
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.Response
	}

	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Response
	}

	return nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// mapRepository converts a go-github Repository to a domain RepositorySummary.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepository(r *gh.Repository) model.RepositorySummary {
	return model.RepositorySummary{
		Name:        r.GetName(),
		URL:         r.GetHTMLURL(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		UpdatedAt:   r.GetUpdatedAt().Time,
		IsPrivate:   r.GetPrivate(),
		IsFork:      r.GetFork(),
	}
}
