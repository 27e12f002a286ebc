package driven

import "context"

// ConnectivityProbe reports whether the host currently has network access.
type ConnectivityProbe interface {
	Online(ctx context.Context) bool
}
