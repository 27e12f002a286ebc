package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portfolio/internal/adapter/driven/memsurface"
	httphandler "github.com/ericfisherdev/portfolio/internal/adapter/driving/http"
	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockLister struct {
	mu    sync.Mutex
	calls int
	repos []model.RepositorySummary
	err   error
	gate  chan struct{}
}

func (m *mockLister) ListUserRepositories(_ context.Context, _ string, _ driven.ListOptions) ([]model.RepositorySummary, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.gate != nil {
		<-m.gate
	}
	return m.repos, m.err
}

func (m *mockLister) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockProbe struct{ online bool }

func (m mockProbe) Online(context.Context) bool { return m.online }

type mockLoadStore struct {
	records   []model.LoadRecord
	err       error
	lastLimit int
}

func (m *mockLoadStore) Append(_ context.Context, r model.LoadRecord) error {
	m.records = append(m.records, r)
	return nil
}

func (m *mockLoadStore) ListRecent(_ context.Context, limit int) ([]model.LoadRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

// --- Test helpers ---

var (
	testTime    = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	testTimeStr = "2026-02-10T12:00:00Z"
)

type apiHarness struct {
	handler http.Handler
	feedSvc *application.FeedService
	lister  *mockLister
}

func setupAPI(t *testing.T, lister *mockLister, probe mockProbe, loads driven.LoadStore) *apiHarness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	surface := memsurface.New()
	policy := application.RetryPolicy{Attempts: 1, Unit: time.Millisecond}
	feedSvc := application.NewFeedService(lister, surface, probe, nil, policy, logger)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(feedSvc, surface, loads, "octocat", logger))
	return &apiHarness{
		handler: httphandler.ApplyMiddleware(mux, logger),
		feedSvc: feedSvc,
		lister:  lister,
	}
}

func (h *apiHarness) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

// --- Tests ---

func TestGetFeed_Idle(t *testing.T) {
	h := setupAPI(t, &mockLister{}, mockProbe{online: true}, nil)

	rec := h.do(http.MethodGet, "/api/v1/feed")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "octocat", resp["username"])
	assert.Equal(t, "idle", resp["status"])
	assert.Equal(t, float64(0), resp["version"])
	assert.NotContains(t, resp, "failure")

	entries, ok := resp["entries"].([]any)
	require.True(t, ok, "entries must be an array, not null")
	assert.Empty(t, entries)

	state := resp["state"].(map[string]any)
	assert.Equal(t, false, state["is_loading"])
	assert.Equal(t, false, state["has_loaded_once"])
	assert.NotContains(t, state, "last_loaded_at")
}

func TestGetFeed_Loaded(t *testing.T) {
	lister := &mockLister{repos: []model.RepositorySummary{
		{Name: "small", URL: "https://github.com/octocat/small", Stars: 1, UpdatedAt: testTime},
		{Name: "big", URL: "https://github.com/octocat/big", Language: "Python", Stars: 40, Forks: 2, UpdatedAt: testTime, IsPrivate: true},
		{Name: "fork", Stars: 100, IsFork: true, UpdatedAt: testTime},
	}}
	h := setupAPI(t, lister, mockProbe{online: true}, nil)
	h.feedSvc.Load(context.Background(), "octocat")

	rec := h.do(http.MethodGet, "/api/v1/feed")

	var resp httphandler.FeedResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "loaded", resp.Status)
	assert.True(t, resp.State.HasLoadedOnce)
	assert.NotEmpty(t, resp.State.LastLoadedAt)
	assert.Nil(t, resp.Failure)
	require.Len(t, resp.Entries, 2)

	first := resp.Entries[0]
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, "big", first.Name)
	assert.Equal(t, "Python", first.Language)
	assert.Equal(t, "#3572A5", first.LanguageColor)
	assert.Equal(t, 40, first.Stars)
	assert.Equal(t, 2, first.Forks)
	assert.Equal(t, testTimeStr, first.UpdatedAt)
	assert.True(t, first.IsPrivate)
	assert.NotEmpty(t, first.Age)

	assert.Equal(t, "small", resp.Entries[1].Name)
	assert.Equal(t, "#6e7681", resp.Entries[1].LanguageColor)
}

func TestGetFeed_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		online   bool
		wantKind string
		wantMsg  string
	}{
		{
			name:     "rate limited",
			err:      &driven.StatusError{StatusCode: http.StatusForbidden},
			online:   true,
			wantKind: "rate_limited",
			wantMsg:  "API rate limit exceeded. Please try again later.",
		},
		{
			name:     "user not found",
			err:      &driven.StatusError{StatusCode: http.StatusNotFound},
			online:   true,
			wantKind: "not_found",
			wantMsg:  "GitHub user not found.",
		},
		{
			name:     "offline",
			err:      errors.New("dial tcp: no route to host"),
			online:   false,
			wantKind: "offline",
			wantMsg:  "No internet connection detected.",
		},
		{
			name:     "generic",
			err:      &driven.StatusError{StatusCode: http.StatusInternalServerError},
			online:   true,
			wantKind: "generic",
			wantMsg:  "Failed to load repositories. Please try again later.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := setupAPI(t, &mockLister{err: tc.err}, mockProbe{online: tc.online}, nil)
			h.feedSvc.Load(context.Background(), "octocat")

			rec := h.do(http.MethodGet, "/api/v1/feed")

			var resp httphandler.FeedResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, "failed", resp.Status)
			assert.False(t, resp.State.HasLoadedOnce)
			require.NotNil(t, resp.Failure)
			assert.Equal(t, tc.wantKind, resp.Failure.Kind)
			assert.Equal(t, tc.wantMsg, resp.Failure.Message)
			assert.Equal(t, model.FailureHint, resp.Failure.Hint)
			assert.Equal(t, tc.wantMsg, resp.Message)
		})
	}
}

func TestGetFeed_Empty(t *testing.T) {
	h := setupAPI(t, &mockLister{repos: []model.RepositorySummary{}}, mockProbe{online: true}, nil)
	h.feedSvc.Load(context.Background(), "octocat")

	rec := h.do(http.MethodGet, "/api/v1/feed")

	var resp httphandler.FeedResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "empty", resp.Status)
	assert.Equal(t, model.EmptyFeedMessage, resp.Message)
	assert.True(t, resp.State.HasLoadedOnce)
}

func TestRefreshFeed_Accepted(t *testing.T) {
	lister := &mockLister{repos: []model.RepositorySummary{{Name: "a", UpdatedAt: testTime}}}
	h := setupAPI(t, lister, mockProbe{online: true}, nil)

	rec := h.do(http.MethodPost, "/api/v1/feed/refresh")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var resp httphandler.RefreshResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, "octocat", resp.Username)

	assert.Eventually(t, func() bool {
		return h.feedSvc.State().HasLoadedOnce
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, lister.callCount())
}

func TestRefreshFeed_ConflictWhileLoading(t *testing.T) {
	lister := &mockLister{repos: []model.RepositorySummary{}, gate: make(chan struct{})}
	h := setupAPI(t, lister, mockProbe{online: true}, nil)

	first := h.do(http.MethodPost, "/api/v1/feed/refresh")
	require.Equal(t, http.StatusAccepted, first.Code)

	second := h.do(http.MethodPost, "/api/v1/feed/refresh")

	assert.Equal(t, http.StatusConflict, second.Code)
	var resp map[string]any
	decodeJSON(t, second, &resp)
	assert.Equal(t, "feed load already in progress", resp["error"])

	close(lister.gate)
	assert.Eventually(t, func() bool {
		return !h.feedSvc.State().IsLoading
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, lister.callCount())
}

func TestListLoads(t *testing.T) {
	store := &mockLoadStore{records: []model.LoadRecord{
		{
			ID:         "b1",
			Username:   "octocat",
			Trigger:    model.TriggerRefresh,
			StartedAt:  testTime,
			FinishedAt: testTime.Add(1500 * time.Millisecond),
			Attempts:   2,
			Outcome:    model.OutcomeFailed,
			Failure:    model.FailureNotFound,
			Error:      "HTTP 404: Not Found",
		},
		{
			ID:         "a1",
			Username:   "octocat",
			Trigger:    model.TriggerAuto,
			StartedAt:  testTime.Add(-time.Hour),
			FinishedAt: testTime.Add(-time.Hour),
			Attempts:   1,
			Outcome:    model.OutcomeLoaded,
			RepoCount:  5,
		},
	}}
	h := setupAPI(t, &mockLister{}, mockProbe{online: true}, store)

	rec := h.do(http.MethodGet, "/api/v1/loads?limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.lastLimit)

	var resp []map[string]any
	decodeJSON(t, rec, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "b1", resp[0]["id"])
	assert.Equal(t, "refresh", resp[0]["trigger"])
	assert.Equal(t, testTimeStr, resp[0]["started_at"])
	assert.Equal(t, float64(1500), resp[0]["duration_ms"])
	assert.Equal(t, float64(2), resp[0]["attempts"])
	assert.Equal(t, "failed", resp[0]["outcome"])
	assert.Equal(t, "not_found", resp[0]["failure"])
	assert.Equal(t, "HTTP 404: Not Found", resp[0]["error"])

	assert.Equal(t, "loaded", resp[1]["outcome"])
	assert.Equal(t, float64(5), resp[1]["repo_count"])
	assert.NotContains(t, resp[1], "failure")
	assert.NotContains(t, resp[1], "error")
}

func TestListLoads_DefaultLimit(t *testing.T) {
	store := &mockLoadStore{}
	h := setupAPI(t, &mockLister{}, mockProbe{online: true}, store)

	rec := h.do(http.MethodGet, "/api/v1/loads")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, store.lastLimit)
	var resp []any
	decodeJSON(t, rec, &resp)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}

func TestListLoads_InvalidLimit(t *testing.T) {
	for _, limit := range []string{"0", "-3", "abc", "101"} {
		t.Run(limit, func(t *testing.T) {
			h := setupAPI(t, &mockLister{}, mockProbe{online: true}, &mockLoadStore{})

			rec := h.do(http.MethodGet, "/api/v1/loads?limit="+limit)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListLoads_StoreError(t *testing.T) {
	store := &mockLoadStore{err: errors.New("disk full")}
	h := setupAPI(t, &mockLister{}, mockProbe{online: true}, store)

	rec := h.do(http.MethodGet, "/api/v1/loads")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
}

func TestListLoads_NoStore(t *testing.T) {
	h := setupAPI(t, &mockLister{}, mockProbe{online: true}, nil)

	rec := h.do(http.MethodGet, "/api/v1/loads")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []any
	decodeJSON(t, rec, &resp)
	assert.Empty(t, resp)
}

func TestHealth(t *testing.T) {
	h := setupAPI(t, &mockLister{}, mockProbe{online: true}, nil)

	rec := h.do(http.MethodGet, "/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["time"])
}

func TestApplyMiddleware_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	httphandler.ApplyMiddleware(mux, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
}
