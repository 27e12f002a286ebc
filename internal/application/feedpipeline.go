package application

import (
	"fmt"
	"slices"
	"time"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

// MaxFeedEntries is the number of repositories shown on the portfolio.
const MaxFeedEntries = 8

// defaultLanguageColor is used for languages missing from languageColors.
const defaultLanguageColor = "#6e7681"

var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"Python":     "#3572A5",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"Java":       "#b07219",
	"TypeScript": "#2b7489",
	"Shell":      "#89e051",
	"Dockerfile": "#384d54",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
}

// LanguageColor returns the indicator colour for a primary language.
func LanguageColor(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}
	return defaultLanguageColor
}

// BuildFeed turns a raw repository listing into display entries: forks are
// dropped, the rest ranked by stars then recency, and the top MaxFeedEntries
// kept. The input slice is not modified.
func BuildFeed(repos []model.RepositorySummary, now time.Time) []model.FeedEntry {
	ranked := RankRepositories(repos)

	entries := make([]model.FeedEntry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, model.FeedEntry{
			Position:      i,
			Name:          r.Name,
			URL:           r.URL,
			Description:   r.Description,
			Language:      r.Language,
			LanguageColor: LanguageColor(r.Language),
			Stars:         r.Stars,
			Forks:         r.Forks,
			UpdatedAt:     r.UpdatedAt,
			Age:           FormatAge(r.UpdatedAt, now),
			IsPrivate:     r.IsPrivate,
		})
	}
	return entries
}

// RankRepositories filters out forks, orders by descending star count with
// ties broken by the most recent update, and truncates to MaxFeedEntries.
func RankRepositories(repos []model.RepositorySummary) []model.RepositorySummary {
	kept := make([]model.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		if r.IsFork {
			continue
		}
		kept = append(kept, r)
	}

	slices.SortStableFunc(kept, func(a, b model.RepositorySummary) int {
		if a.Stars != b.Stars {
			return b.Stars - a.Stars
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	if len(kept) > MaxFeedEntries {
		kept = kept[:MaxFeedEntries]
	}
	return kept
}

// FormatAge renders the distance between t and now as a relative age.
// Any partial day counts as a whole day.
func FormatAge(t, now time.Time) string {
	days := elapsedDays(t, now)

	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", ceilDiv(days, 7))
	case days < 365:
		return fmt.Sprintf("%d months ago", ceilDiv(days, 30))
	default:
		return fmt.Sprintf("%d years ago", ceilDiv(days, 365))
	}
}

func elapsedDays(t, now time.Time) int {
	const day = 24 * time.Hour

	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	d = d.Truncate(time.Millisecond)

	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
