// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PageViewModel holds everything the portfolio page layout needs.
type PageViewModel struct {
	Title        string
	Username     string
	ProfileURL   string
	ShowProjects bool
	RepoList     RepoListViewModel
}

// RepoListViewModel holds presentation-ready data for the repository list
// fragment. Exactly one of Cards or Placeholder is rendered.
type RepoListViewModel struct {
	Status      string // idle, loading, loaded, empty, failed
	Version     uint64
	Cards       []RepoCardViewModel
	Placeholder PlaceholderViewModel
	Toast       string // shown once per successful render
	Refreshing  bool
	RefreshPath string
	PollPath    string
}

// PlaceholderViewModel describes the single list item shown instead of cards.
type PlaceholderViewModel struct {
	Kind    string // loading, empty, failed
	Icon    string
	Message string
	Hint    string
}

// RepoCardViewModel holds presentation-ready data for one repository card.
type RepoCardViewModel struct {
	Name            string
	URL             string
	DescriptionHTML string // sanitized inline HTML; empty when no description
	Language        string
	LanguageColor   string
	StarsLabel      string
	ForksLabel      string
	UpdatedLabel    string
	UpdatedISO      string
	IsPrivate       bool
	RevealDelay     string // CSS animation-delay, staggered by position
}
