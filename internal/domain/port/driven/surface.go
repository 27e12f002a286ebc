package driven

import "github.com/ericfisherdev/portfolio/internal/domain/model"

// FeedSurface is the display surface a feed loader renders into.
// Implementations must be safe for use from multiple goroutines.
type FeedSurface interface {
	ShowLoading()
	ShowEntries(entries []model.FeedEntry)
	ShowEmpty()
	ShowFailure(kind model.FailureKind)
}

// SnapshotReader is implemented by surfaces that retain what they display, so
// driving adapters can serve it on request.
type SnapshotReader interface {
	Snapshot() model.FeedSnapshot
}
