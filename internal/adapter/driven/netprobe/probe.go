// Package netprobe implements the ConnectivityProbe port with a TCP dial.
package netprobe

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ConnectivityProbe = (*Probe)(nil)

// Probe reports the host as online when a TCP connection to addr succeeds.
type Probe struct {
	addr   string
	dialer *net.Dialer
}

// New creates a Probe that dials addr ("host:port") with the given timeout.
func New(addr string, timeout time.Duration) *Probe {
	return &Probe{
		addr:   addr,
		dialer: &net.Dialer{Timeout: timeout},
	}
}

// Online dials the probe address once.
func (p *Probe) Online(ctx context.Context) bool {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		slog.Debug("connectivity probe failed", "addr", p.addr, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}
