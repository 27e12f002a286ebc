package driven

import (
	"context"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

// LoadStore defines the driven port for feed load diagnostics.
// ListRecent returns the newest records first.
type LoadStore interface {
	Append(ctx context.Context, record model.LoadRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.LoadRecord, error)
}
