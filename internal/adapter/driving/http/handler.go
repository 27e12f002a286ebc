package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

const (
	defaultLoadsLimit = 20
	maxLoadsLimit     = 100
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	feedSvc   *application.FeedService
	snapshots driven.SnapshotReader
	loads     driven.LoadStore
	username  string
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a Handler with all required dependencies. loads may be
// nil, in which case the load history endpoint returns an empty list.
func NewHandler(
	feedSvc *application.FeedService,
	snapshots driven.SnapshotReader,
	loads driven.LoadStore,
	username string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		feedSvc:   feedSvc,
		snapshots: snapshots,
		loads:     loads,
		username:  username,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterAPIRoutes registers the JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/feed", h.GetFeed)
	mux.HandleFunc("POST /api/v1/feed/refresh", h.RefreshFeed)
	mux.HandleFunc("GET /api/v1/loads", h.ListLoads)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// GetFeed returns the loader state together with what the feed currently shows.
func (h *Handler) GetFeed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toFeedResponse(h.username, h.feedSvc.State(), h.snapshots.Snapshot(), h.now()))
}

// RefreshFeed starts an asynchronous refresh. It answers 409 when a load is
// already in flight.
func (h *Handler) RefreshFeed(w http.ResponseWriter, r *http.Request) {
	// The load outlives this request.
	if !h.feedSvc.StartRefresh(context.WithoutCancel(r.Context()), h.username) {
		writeError(w, http.StatusConflict, "feed load already in progress")
		return
	}

	writeJSON(w, http.StatusAccepted, RefreshResponse{Status: "accepted", Username: h.username})
}

// ListLoads returns the most recent load records, newest first.
func (h *Handler) ListLoads(w http.ResponseWriter, r *http.Request) {
	limit := defaultLoadsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLoadsLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	resp := []LoadResponse{}
	if h.loads == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	records, err := h.loads.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list feed loads", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, rec := range records {
		resp = append(resp, toLoadResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
