// Package memsurface implements the FeedSurface port as an in-memory snapshot
// that the web GUI and JSON API read from.
package memsurface

import (
	"slices"
	"sync"
	"time"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FeedSurface = (*Surface)(nil)

// Surface holds the latest rendered feed. Every Show call replaces the
// previous content and bumps the snapshot version.
type Surface struct {
	mu       sync.RWMutex
	snapshot model.FeedSnapshot
	now      func() time.Time
}

// New creates an idle Surface.
func New() *Surface {
	return &Surface{
		snapshot: model.FeedSnapshot{Status: model.FeedStatusIdle},
		now:      time.Now,
	}
}

// ShowLoading replaces the content with the loading placeholder.
func (s *Surface) ShowLoading() {
	s.set(model.FeedStatusLoading, nil, model.FailureNone)
}

// ShowEntries replaces the content with the given entries.
func (s *Surface) ShowEntries(entries []model.FeedEntry) {
	s.set(model.FeedStatusLoaded, slices.Clone(entries), model.FailureNone)
}

// ShowEmpty replaces the content with the no-repositories placeholder.
func (s *Surface) ShowEmpty() {
	s.set(model.FeedStatusEmpty, nil, model.FailureNone)
}

// ShowFailure replaces the content with the failure placeholder.
func (s *Surface) ShowFailure(kind model.FailureKind) {
	s.set(model.FeedStatusFailed, nil, kind)
}

// Snapshot returns a copy of what is currently displayed.
func (s *Surface) Snapshot() model.FeedSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = slices.Clone(s.snapshot.Entries)
	return snap
}

func (s *Surface) set(status model.FeedStatus, entries []model.FeedEntry, failure model.FailureKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = model.FeedSnapshot{
		Status:    status,
		Entries:   entries,
		Failure:   failure,
		UpdatedAt: s.now(),
		Version:   s.snapshot.Version + 1,
	}
}
