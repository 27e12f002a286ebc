package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

// RefreshScheduler periodically refreshes the feed on a cron schedule so a
// long-running server does not keep showing the first render forever.
type RefreshScheduler struct {
	cron     *cron.Cron
	feedSvc  *FeedService
	username string
	expr     string
}

// NewRefreshScheduler validates the standard five-field cron expression and
// returns a scheduler that is not yet running.
func NewRefreshScheduler(feedSvc *FeedService, username, expr string) (*RefreshScheduler, error) {
	if _, err := cron.ParseStandard(expr); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", expr, err)
	}

	return &RefreshScheduler{
		cron:     cron.New(),
		feedSvc:  feedSvc,
		username: username,
		expr:     expr,
	}, nil
}

// Start registers the refresh job and runs the scheduler until ctx is done.
// Start blocks.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.expr, func() {
		s.feedSvc.refresh(ctx, s.username, model.TriggerScheduled)
	})
	if err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}

	slog.Info("feed refresh scheduled", "cron", s.expr, "username", s.username)
	s.cron.Start()

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	slog.Info("refresh scheduler stopped")
	return nil
}
