// Package probe classifies a remote host's power state from a
// network-layer reachability check and a TCP port check.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for host liveness classification.
type Service interface {
	Classify(ctx context.Context, host string, port int) (*models.StatusResult, error)
}

// Pinger checks network-layer reachability. Implementations degrade
// every internal failure to false.
type Pinger interface {
	Ping(ctx context.Context, host string, timeout time.Duration) bool
}

// PortDialer checks whether a TCP port accepts connections.
type PortDialer interface {
	Dial(ctx context.Context, host string, port int, timeout time.Duration) bool
}

// TCPDialer is the default PortDialer using net.Dialer.
type TCPDialer struct{}

// Dial reports whether a TCP connection to host:port succeeds within timeout.
func (d *TCPDialer) Dial(ctx context.Context, host string, port int, timeout time.Duration) bool {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Impl implements the probe Service interface.
type Impl struct {
	pinger Pinger
	dialer PortDialer
	cfg    models.ProbeConfig
	logger zerolog.Logger
}

// New creates a new probe service.
func New(logger zerolog.Logger, cfg models.ProbeConfig) *Impl {
	return &Impl{
		pinger: NewICMPPinger(logger),
		dialer: &TCPDialer{},
		cfg:    cfg,
		logger: logger,
	}
}

// NewWithProbes creates a new probe service with custom probes (for testing).
func NewWithProbes(logger zerolog.Logger, cfg models.ProbeConfig, pinger Pinger, dialer PortDialer) *Impl {
	return &Impl{
		pinger: pinger,
		dialer: dialer,
		cfg:    cfg,
		logger: logger,
	}
}

// Classify runs the two probe tiers in order. An unreachable host is
// offline regardless of the port; a reachable host is online when the
// port accepts a connection and sleeping when it does not.
func (s *Impl) Classify(ctx context.Context, host string, port int) (*models.StatusResult, error) {
	if host == "" {
		return nil, models.NewValidationError("host is required")
	}
	if port < 1 || port > 65535 {
		return nil, models.NewValidationError("port must be in range 1-65535, got %d", port)
	}

	result := &models.StatusResult{Host: host, Port: port}

	result.Ping = s.pinger.Ping(ctx, host, s.cfg.PingTimeout)
	if !result.Ping {
		result.Status = models.StatusOffline
		s.logger.Debug().Str("host", host).Msg("host did not answer ping")
		return result, nil
	}

	result.TCP = s.dialer.Dial(ctx, host, port, s.cfg.TCPTimeout)
	if result.TCP {
		result.Status = models.StatusOnline
	} else {
		result.Status = models.StatusSleeping
	}

	s.logger.Debug().
		Str("host", host).
		Int("port", port).
		Bool("ping", result.Ping).
		Bool("tcp", result.TCP).
		Str("status", string(result.Status)).
		Msg("host classified")

	return result, nil
}
