package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// classifyFailure maps a terminal load error to the message shown to the
// visitor. Status codes take priority over the connectivity probe.
func classifyFailure(ctx context.Context, err error, probe driven.ConnectivityProbe) model.FailureKind {
	var statusErr *driven.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusForbidden:
			return model.FailureRateLimited
		case http.StatusNotFound:
			return model.FailureNotFound
		}
	}

	// A cancelled load fails its dial too; that says nothing about the network.
	if ctx.Err() != nil {
		return model.FailureGeneric
	}

	if probe != nil && !probe.Online(ctx) {
		return model.FailureOffline
	}

	return model.FailureGeneric
}
