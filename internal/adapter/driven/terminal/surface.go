// Package terminal implements the FeedSurface port as plain text for the CLI.
package terminal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FeedSurface = (*Surface)(nil)

// Surface writes the feed to an io.Writer, one block per repository.
type Surface struct {
	mu      sync.Mutex
	w       io.Writer
	failure model.FailureKind
}

// New creates a Surface writing to w.
func New(w io.Writer) *Surface {
	return &Surface{w: w}
}

// Failure returns the failure kind last shown, or FailureNone.
func (s *Surface) Failure() model.FailureKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// ShowLoading prints the loading line.
func (s *Surface) ShowLoading() {
	s.write(model.LoadingMessage + "\n")
}

// ShowEntries prints every entry in order.
func (s *Surface) ShowEntries(entries []model.FeedEntry) {
	var b strings.Builder
	for _, e := range entries {
		writeEntry(&b, e)
	}
	s.write(b.String())
}

// ShowEmpty prints the no-repositories placeholder.
func (s *Surface) ShowEmpty() {
	s.write(model.EmptyFeedMessage + "\n")
}

// ShowFailure prints the failure message and hint.
func (s *Surface) ShowFailure(kind model.FailureKind) {
	s.mu.Lock()
	s.failure = kind
	s.mu.Unlock()

	s.write(kind.Message() + "\n" + model.FailureHint + "\n")
}

func writeEntry(b *strings.Builder, e model.FeedEntry) {
	b.WriteString(e.Name)
	if e.IsPrivate {
		b.WriteString(" [private]")
	}
	b.WriteString("\n  ")
	b.WriteString(e.URL)
	b.WriteString("\n")

	if e.Description != "" {
		fmt.Fprintf(b, "  %s\n", e.Description)
	}

	b.WriteString("  ")
	if e.Language != "" {
		fmt.Fprintf(b, "%s · ", e.Language)
	}
	fmt.Fprintf(b, "★ %s · forks %s · %s\n",
		humanize.Comma(int64(e.Stars)),
		humanize.Comma(int64(e.Forks)),
		e.Age,
	)
}

func (s *Surface) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, text); err != nil {
		slog.Error("failed to write feed output", "error", err)
	}
}
