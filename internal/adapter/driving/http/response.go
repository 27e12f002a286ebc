package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// FeedResponse is the JSON representation of the feed and its loader state.
type FeedResponse struct {
	Username  string           `json:"username"`
	State     StateResponse    `json:"state"`
	Status    string           `json:"status"`
	Version   uint64           `json:"version"`
	UpdatedAt string           `json:"updated_at,omitempty"`
	Message   string           `json:"message,omitempty"`
	Failure   *FailureResponse `json:"failure,omitempty"`
	Entries   []EntryResponse  `json:"entries"`
}

// StateResponse is the JSON representation of the loader state.
type StateResponse struct {
	IsLoading     bool   `json:"is_loading"`
	HasLoadedOnce bool   `json:"has_loaded_once"`
	LastLoadedAt  string `json:"last_loaded_at,omitempty"`
}

// FailureResponse describes why the last load failed.
type FailureResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

// EntryResponse is the JSON representation of one rendered repository.
type EntryResponse struct {
	Position      int    `json:"position"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Language      string `json:"language"`
	LanguageColor string `json:"language_color"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	UpdatedAt     string `json:"updated_at"`
	Age           string `json:"age"`
	IsPrivate     bool   `json:"is_private"`
}

// RefreshResponse acknowledges an accepted refresh.
type RefreshResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

// LoadResponse is the JSON representation of one load history record.
type LoadResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Trigger    string `json:"trigger"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	DurationMS int64  `json:"duration_ms"`
	Attempts   int    `json:"attempts"`
	Outcome    string `json:"outcome"`
	Failure    string `json:"failure,omitempty"`
	RepoCount  int    `json:"repo_count"`
	Error      string `json:"error,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toFeedResponse combines loader state and surface snapshot. The placeholder
// message is set for every status that renders one. Entry ages are relative
// to now.
func toFeedResponse(username string, state model.LoadState, snap model.FeedSnapshot, now time.Time) FeedResponse {
	resp := FeedResponse{
		Username: username,
		State: StateResponse{
			IsLoading:     state.IsLoading,
			HasLoadedOnce: state.HasLoadedOnce,
			LastLoadedAt:  formatTime(state.LastLoadedAt),
		},
		Status:    string(snap.Status),
		Version:   snap.Version,
		UpdatedAt: formatTime(snap.UpdatedAt),
		Entries:   make([]EntryResponse, 0, len(snap.Entries)),
	}

	switch snap.Status {
	case model.FeedStatusLoading:
		resp.Message = model.LoadingMessage
	case model.FeedStatusEmpty:
		resp.Message = model.EmptyFeedMessage
	case model.FeedStatusFailed:
		resp.Message = snap.Failure.Message()
		resp.Failure = &FailureResponse{
			Kind:    string(snap.Failure),
			Message: snap.Failure.Message(),
			Hint:    model.FailureHint,
		}
	}

	for _, e := range snap.Entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e, now))
	}

	return resp
}

// toEntryResponse converts a domain FeedEntry to its JSON representation.
func toEntryResponse(e model.FeedEntry, now time.Time) EntryResponse {
	return EntryResponse{
		Position:      e.Position,
		Name:          e.Name,
		URL:           e.URL,
		Description:   e.Description,
		Language:      e.Language,
		LanguageColor: e.LanguageColor,
		Stars:         e.Stars,
		Forks:         e.Forks,
		UpdatedAt:     formatTime(e.UpdatedAt),
		Age:           application.FormatAge(e.UpdatedAt, now),
		IsPrivate:     e.IsPrivate,
	}
}

// toLoadResponse converts a domain LoadRecord to its JSON representation.
func toLoadResponse(r model.LoadRecord) LoadResponse {
	return LoadResponse{
		ID:         r.ID,
		Username:   r.Username,
		Trigger:    string(r.Trigger),
		StartedAt:  formatTime(r.StartedAt),
		FinishedAt: formatTime(r.FinishedAt),
		DurationMS: r.Duration().Milliseconds(),
		Attempts:   r.Attempts,
		Outcome:    string(r.Outcome),
		Failure:    string(r.Failure),
		RepoCount:  r.RepoCount,
		Error:      r.Error,
	}
}

// formatTime renders t as RFC3339 in UTC, or "" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
