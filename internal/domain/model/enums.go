package model

// FailureKind classifies why a feed load could not be rendered.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureRateLimited FailureKind = "rate_limited"
	FailureNotFound    FailureKind = "not_found"
	FailureOffline     FailureKind = "offline"
	FailureGeneric     FailureKind = "generic"
)

// FailureHint is shown beneath every failure message.
const FailureHint = "Please check your internet connection and try again."

// Message returns the user-facing text for the failure kind.
func (k FailureKind) Message() string {
	switch k {
	case FailureRateLimited:
		return "API rate limit exceeded. Please try again later."
	case FailureNotFound:
		return "GitHub user not found."
	case FailureOffline:
		return "No internet connection detected."
	case FailureNone:
		return ""
	default:
		return "Failed to load repositories. Please try again later."
	}
}

// FeedStatus is what a feed surface is currently displaying.
type FeedStatus string

const (
	FeedStatusIdle    FeedStatus = "idle"
	FeedStatusLoading FeedStatus = "loading"
	FeedStatusLoaded  FeedStatus = "loaded"
	FeedStatusEmpty   FeedStatus = "empty"
	FeedStatusFailed  FeedStatus = "failed"
)

// LoadTrigger records what started a feed load.
type LoadTrigger string

const (
	TriggerAuto      LoadTrigger = "auto"
	TriggerRefresh   LoadTrigger = "refresh"
	TriggerScheduled LoadTrigger = "scheduled"
)

// LoadOutcome is the terminal result of a feed load.
type LoadOutcome string

const (
	OutcomeLoaded LoadOutcome = "loaded"
	OutcomeEmpty  LoadOutcome = "empty"
	OutcomeFailed LoadOutcome = "failed"
)
