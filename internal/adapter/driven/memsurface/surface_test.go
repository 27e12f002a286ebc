package memsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

func TestSurface_StartsIdle(t *testing.T) {
	s := New()

	snap := s.Snapshot()
	assert.Equal(t, model.FeedStatusIdle, snap.Status)
	assert.Zero(t, snap.Version)
}

func TestSurface_Transitions(t *testing.T) {
	s := New()

	s.ShowLoading()
	assert.Equal(t, model.FeedStatusLoading, s.Snapshot().Status)

	s.ShowEntries([]model.FeedEntry{{Name: "a"}, {Name: "b"}})
	snap := s.Snapshot()
	assert.Equal(t, model.FeedStatusLoaded, snap.Status)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, uint64(2), snap.Version)
	assert.False(t, snap.UpdatedAt.IsZero())

	s.ShowFailure(model.FailureNotFound)
	snap = s.Snapshot()
	assert.Equal(t, model.FeedStatusFailed, snap.Status)
	assert.Equal(t, model.FailureNotFound, snap.Failure)
	assert.Empty(t, snap.Entries, "failure replaces the previous entries")

	s.ShowEmpty()
	snap = s.Snapshot()
	assert.Equal(t, model.FeedStatusEmpty, snap.Status)
	assert.Equal(t, model.FailureNone, snap.Failure)
	assert.Equal(t, uint64(4), snap.Version)
}

func TestSurface_SnapshotIsACopy(t *testing.T) {
	s := New()
	entries := []model.FeedEntry{{Name: "a"}}
	s.ShowEntries(entries)

	entries[0].Name = "mutated"
	snap := s.Snapshot()
	snap.Entries[0].Name = "also-mutated"

	assert.Equal(t, "a", s.Snapshot().Entries[0].Name)
}
