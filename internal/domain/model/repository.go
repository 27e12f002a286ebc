package model

import "time"

// RepositorySummary is a repository as reported by the GitHub listing endpoint.
// Description and Language are empty when GitHub reports none.
type RepositorySummary struct {
	Name        string
	URL         string
	Description string
	Language    string
	Stars       int
	Forks       int
	UpdatedAt   time.Time
	IsPrivate   bool
	IsFork      bool
}

// FeedEntry is a RepositorySummary prepared for display.
type FeedEntry struct {
	Position      int // 0-based render index; drives the staggered reveal.
	Name          string
	URL           string
	Description   string
	Language      string
	LanguageColor string
	Stars         int
	Forks         int
	UpdatedAt     time.Time
	Age           string
	IsPrivate     bool
}
