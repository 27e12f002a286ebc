// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// FeedService loads a user's repositories into a display surface. At most one
// load runs at a time, and once a load has rendered, further automatic loads
// are no-ops until Refresh is called.
type FeedService struct {
	lister  driven.RepositoryLister
	surface driven.FeedSurface
	probe   driven.ConnectivityProbe
	history driven.LoadStore
	policy  RetryPolicy
	now     func() time.Time
	logger  *slog.Logger

	mu    sync.Mutex
	state model.LoadState
}

// NewFeedService creates a FeedService. history may be nil to skip load
// diagnostics.
func NewFeedService(
	lister driven.RepositoryLister,
	surface driven.FeedSurface,
	probe driven.ConnectivityProbe,
	history driven.LoadStore,
	policy RetryPolicy,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		lister:  lister,
		surface: surface,
		probe:   probe,
		history: history,
		policy:  policy,
		now:     time.Now,
		logger:  logger,
	}
}

// State returns a copy of the current load state.
func (s *FeedService) State() model.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches and renders the feed for username unless a load is in flight
// or the feed has already been rendered. It blocks until the load finishes;
// run it in a goroutine for fire-and-forget use.
func (s *FeedService) Load(ctx context.Context, username string) {
	if !s.begin(false) {
		s.logger.Debug("feed load skipped", "username", username)
		return
	}
	s.run(ctx, username, model.TriggerAuto)
}

// Refresh clears the loaded-once flag and loads again. It reports false, and
// does nothing, when a load is already in flight.
func (s *FeedService) Refresh(ctx context.Context, username string) bool {
	return s.refresh(ctx, username, model.TriggerRefresh)
}

// StartRefresh is Refresh without the wait: the load is claimed before it
// returns and then runs in its own goroutine. ctx must outlive the caller's
// request.
func (s *FeedService) StartRefresh(ctx context.Context, username string) bool {
	if !s.begin(true) {
		s.logger.Info("feed refresh dropped, load in flight", "username", username, "trigger", model.TriggerRefresh)
		return false
	}
	go s.run(ctx, username, model.TriggerRefresh)
	return true
}

func (s *FeedService) refresh(ctx context.Context, username string, trigger model.LoadTrigger) bool {
	if !s.begin(true) {
		s.logger.Info("feed refresh dropped, load in flight", "username", username, "trigger", trigger)
		return false
	}
	s.run(ctx, username, trigger)
	return true
}

// begin claims the loading flag. reset clears HasLoadedOnce first, which is
// what distinguishes an explicit refresh from an automatic load.
func (s *FeedService) begin(reset bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsLoading {
		return false
	}
	if reset {
		s.state.HasLoadedOnce = false
	}
	if s.state.HasLoadedOnce {
		return false
	}

	s.state.IsLoading = true
	return true
}

func (s *FeedService) finish(loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.IsLoading = false
	if loaded {
		s.state.HasLoadedOnce = true
		s.state.LastLoadedAt = s.now()
	}
}

func (s *FeedService) run(ctx context.Context, username string, trigger model.LoadTrigger) {
	record := model.LoadRecord{
		ID:        uuid.NewString(),
		Username:  username,
		Trigger:   trigger,
		StartedAt: s.now(),
	}

	s.surface.ShowLoading()

	repos, attempts, err := fetchWithRetry(ctx, s.lister, username, s.policy)
	record.Attempts = attempts

	if err != nil {
		kind := classifyFailure(ctx, err, s.probe)
		s.finish(false)
		s.logger.Error("github api error",
			"username", username,
			"attempts", attempts,
			"failure", kind,
			"error", err,
		)
		s.surface.ShowFailure(kind)

		record.Outcome = model.OutcomeFailed
		record.Failure = kind
		record.Error = err.Error()
		s.recordLoad(ctx, record)
		return
	}

	entries := BuildFeed(repos, s.now())
	if len(entries) == 0 {
		s.surface.ShowEmpty()
		record.Outcome = model.OutcomeEmpty
	} else {
		s.surface.ShowEntries(entries)
		record.Outcome = model.OutcomeLoaded
	}
	s.finish(true)

	s.logger.Info("feed loaded",
		"username", username,
		"fetched", len(repos),
		"shown", len(entries),
		"attempts", attempts,
	)

	record.RepoCount = len(entries)
	s.recordLoad(ctx, record)
}

func (s *FeedService) recordLoad(ctx context.Context, record model.LoadRecord) {
	if s.history == nil {
		return
	}

	record.FinishedAt = s.now()
	if err := s.history.Append(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Error("failed to record feed load", "id", record.ID, "error", err)
	}
}
