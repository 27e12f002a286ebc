package model

import "time"

// EmptyFeedMessage is displayed when a user has no qualifying repositories.
const EmptyFeedMessage = "No public repositories found."

// LoadingMessage is displayed while a feed load is in flight.
const LoadingMessage = "Loading awesome projects..."

// LoadedMessage is the transient confirmation shown after a successful load.
const LoadedMessage = "Projects loaded successfully!"

// LoadState is the lifecycle of a feed loader.
type LoadState struct {
	IsLoading     bool
	HasLoadedOnce bool
	LastLoadedAt  time.Time
}

// FeedSnapshot is the content a feed surface currently displays.
type FeedSnapshot struct {
	Status    FeedStatus
	Entries   []FeedEntry
	Failure   FailureKind
	UpdatedAt time.Time
	Version   uint64
}

// LoadRecord is the diagnostics entry written for each feed load that ran.
type LoadRecord struct {
	ID         string
	Username   string
	Trigger    LoadTrigger
	StartedAt  time.Time
	FinishedAt time.Time
	Attempts   int
	Outcome    LoadOutcome
	Failure    FailureKind
	RepoCount  int
	Error      string
}

// Duration returns how long the load took.
func (r LoadRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
