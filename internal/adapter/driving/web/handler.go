// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/portfolio/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/portfolio/internal/adapter/driving/web/templates/components"
	"github.com/ericfisherdev/portfolio/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/portfolio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	feedSvc      *application.FeedService
	snapshots    driven.SnapshotReader
	username     string
	showProjects bool
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandler creates a Handler with all required dependencies. When
// showProjects is false the page omits the projects section and the fragment
// routes answer 404.
func NewHandler(
	feedSvc *application.FeedService,
	snapshots driven.SnapshotReader,
	username string,
	showProjects bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		feedSvc:      feedSvc,
		snapshots:    snapshots,
		username:     username,
		showProjects: showProjects,
		logger:       logger,
		now:          time.Now,
	}
}

// Portfolio renders the portfolio page with the full HTML layout.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	csrfToken(w, r)

	page := vm.PageViewModel{
		Title:        fmt.Sprintf("%s | Portfolio", h.username),
		Username:     h.username,
		ProfileURL:   "https://github.com/" + h.username,
		ShowProjects: h.showProjects,
	}
	if h.showProjects {
		page.RepoList = h.repoList()
	}

	layout := templates.Layout(page.Title, pages.Portfolio(page))
	h.render(w, r, http.StatusOK, layout, "portfolio page")
}

// RepoList renders the projects section fragment. The client polls it while a
// load is in flight.
func (h *Handler) RepoList(w http.ResponseWriter, r *http.Request) {
	if !h.showProjects {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, components.RepoList(h.repoList()), "repo list")
}

// Refresh starts a feed refresh and responds with the current fragment: 202
// when the refresh started, 409 when a load was already in flight.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.showProjects {
		http.NotFound(w, r)
		return
	}
	if !validateCSRF(r) {
		h.logger.Warn("csrf validation failed", "path", r.URL.Path)
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	// The load outlives this request.
	status := http.StatusAccepted
	if !h.feedSvc.StartRefresh(context.WithoutCancel(r.Context()), h.username) {
		status = http.StatusConflict
	}

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, status, components.RepoList(h.repoList()), "repo list")
}

func (h *Handler) repoList() vm.RepoListViewModel {
	return toRepoListViewModel(h.snapshots.Snapshot(), h.feedSvc.State().IsLoading, h.now())
}

// render buffers the component so a render failure can still become a 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component, what string) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render "+what, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
