package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

var pipelineNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFormatAge(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"exactly one day", day, "Yesterday"},
		{"partial day rounds up to one", 3 * time.Hour, "Yesterday"},
		{"partial second day rounds up", day + time.Minute, "2 days ago"},
		{"six days", 6 * day, "6 days ago"},
		{"seven days is one week", 7 * day, "1 weeks ago"},
		{"ten days is two weeks", 10 * day, "2 weeks ago"},
		{"twenty nine days", 29 * day, "5 weeks ago"},
		{"thirty days is one month", 30 * day, "1 months ago"},
		{"forty five days", 45 * day, "2 months ago"},
		{"three hundred sixty four days", 364 * day, "13 months ago"},
		{"one year", 365 * day, "1 years ago"},
		{"four hundred days", 400 * day, "2 years ago"},
		{"same instant", 0, "0 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAge(pipelineNow.Add(-tt.ago), pipelineNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAge_FutureTimestampUsesAbsoluteDifference(t *testing.T) {
	assert.Equal(t, "Yesterday", FormatAge(pipelineNow.Add(24*time.Hour), pipelineNow))
}

func TestFormatAge_SubMillisecondIgnored(t *testing.T) {
	got := FormatAge(pipelineNow.Add(-24*time.Hour-time.Microsecond), pipelineNow)
	assert.Equal(t, "Yesterday", got)
}

func TestLanguageColor(t *testing.T) {
	assert.Equal(t, "#00ADD8", LanguageColor("Go"))
	assert.Equal(t, "#3572A5", LanguageColor("Python"))
	assert.Equal(t, "#6e7681", LanguageColor("COBOL"))
	assert.Equal(t, "#6e7681", LanguageColor(""))
}

func TestRankRepositories_DropsForks(t *testing.T) {
	repos := []model.RepositorySummary{
		{Name: "own-a", Stars: 1},
		{Name: "forked", Stars: 100, IsFork: true},
		{Name: "own-b", Stars: 2},
		{Name: "forked-too", IsFork: true},
	}

	ranked := RankRepositories(repos)

	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.False(t, r.IsFork, "%s should have been filtered", r.Name)
	}
}

func TestRankRepositories_StarsThenRecency(t *testing.T) {
	older := pipelineNow.Add(-48 * time.Hour)
	newer := pipelineNow.Add(-1 * time.Hour)

	repos := []model.RepositorySummary{
		{Name: "five", Stars: 5, UpdatedAt: older},
		{Name: "twenty-old", Stars: 20, UpdatedAt: older},
		{Name: "twenty-new", Stars: 20, UpdatedAt: newer},
		{Name: "three", Stars: 3, UpdatedAt: newer},
	}

	ranked := RankRepositories(repos)

	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"twenty-new", "twenty-old", "five", "three"}, names)
}

func TestRankRepositories_KeepsAtMostEight(t *testing.T) {
	repos := make([]model.RepositorySummary, 0, 10)
	for i := range 10 {
		repos = append(repos, model.RepositorySummary{Name: fmt.Sprintf("repo-%d", i), Stars: i})
	}

	ranked := RankRepositories(repos)

	require.Len(t, ranked, MaxFeedEntries)
	assert.Equal(t, "repo-9", ranked[0].Name)
	assert.Equal(t, "repo-2", ranked[7].Name)
}

func TestRankRepositories_DoesNotMutateInput(t *testing.T) {
	repos := []model.RepositorySummary{
		{Name: "low", Stars: 1},
		{Name: "high", Stars: 9},
	}

	RankRepositories(repos)

	assert.Equal(t, "low", repos[0].Name)
}

func TestBuildFeed_MapsEntries(t *testing.T) {
	repos := []model.RepositorySummary{
		{
			Name:        "portfolio",
			URL:         "https://github.com/octocat/portfolio",
			Description: "My site",
			Language:    "Go",
			Stars:       4,
			Forks:       1,
			UpdatedAt:   pipelineNow.Add(-24 * time.Hour),
			IsPrivate:   true,
		},
		{Name: "unloved", Language: "Elm", UpdatedAt: pipelineNow.Add(-400 * 24 * time.Hour)},
	}

	entries := BuildFeed(repos, pipelineNow)

	require.Len(t, entries, 2)
	assert.Equal(t, model.FeedEntry{
		Position:      0,
		Name:          "portfolio",
		URL:           "https://github.com/octocat/portfolio",
		Description:   "My site",
		Language:      "Go",
		LanguageColor: "#00ADD8",
		Stars:         4,
		Forks:         1,
		UpdatedAt:     pipelineNow.Add(-24 * time.Hour),
		Age:           "Yesterday",
		IsPrivate:     true,
	}, entries[0])
	assert.Equal(t, 1, entries[1].Position)
	assert.Equal(t, "#6e7681", entries[1].LanguageColor)
	assert.Equal(t, "2 years ago", entries[1].Age)
}

func TestBuildFeed_OnlyForksIsEmpty(t *testing.T) {
	entries := BuildFeed([]model.RepositorySummary{{Name: "f", IsFork: true}}, pipelineNow)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}
