package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// Listing parameters sent to GitHub for the portfolio feed.
const (
	feedPageSize = 12
	feedSort     = "updated"
	feedType     = "public"
)

// RetryPolicy controls how a feed fetch is retried. The wait before attempt
// k+1 is k*Unit, so the default policy waits 1s then 2s.
type RetryPolicy struct {
	Attempts uint
	Unit     time.Duration

	// Timer overrides how backoff waits are performed. Nil uses real time.
	Timer retry.Timer
}

// DefaultRetryPolicy returns the three-attempt linear backoff policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Unit: time.Second}
}

// options builds the retry-go option set for the policy.
func (p RetryPolicy) options(ctx context.Context, username string) []retry.Option {
	unit := p.Unit
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		// retry-go passes the number of failed attempts so far, so n is
		// already 1 before the first wait.
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n) * unit
		}),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("repository fetch attempt failed",
				"username", username,
				"attempt", n+1,
				"max_attempts", p.Attempts,
				"error", err,
			)
		}),
	}
	if p.Timer != nil {
		opts = append(opts, retry.WithTimer(p.Timer))
	}
	return opts
}

// fetchWithRetry lists the user's repositories under the retry policy and
// reports how many requests were made. Malformed responses are not retried.
func fetchWithRetry(
	ctx context.Context,
	lister driven.RepositoryLister,
	username string,
	policy RetryPolicy,
) ([]model.RepositorySummary, int, error) {
	listOpts := driven.ListOptions{Sort: feedSort, Type: feedType, PerPage: feedPageSize}

	var attempts int
	repos, err := retry.DoWithData(func() ([]model.RepositorySummary, error) {
		attempts++
		repos, err := lister.ListUserRepositories(ctx, username, listOpts)
		if errors.Is(err, driven.ErrMalformedResponse) {
			return nil, retry.Unrecoverable(err)
		}
		return repos, err
	}, policy.options(ctx, username)...)

	return repos, attempts, err
}
