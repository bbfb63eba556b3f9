// Package probe checks whether a TCP port on a host accepts connections.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single connection attempt.
const DefaultTimeout = 5 * time.Second

// ErrInvalidTarget is returned when the ip or port of a request cannot be used.
var ErrInvalidTarget = errors.New("invalid probe target")

// Service defines the interface for reachability checks.
type Service interface {
	Probe(ctx context.Context, req models.StatusRequest) (*models.ProbeResult, error)
}

// Dialer wraps net.Dialer for mocking.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Impl implements the probe Service interface.
type Impl struct {
	dialer  Dialer
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a new probe service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		dialer:  &net.Dialer{},
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// NewWithDialer creates a new probe service with a custom dialer (for testing).
func NewWithDialer(logger zerolog.Logger, dialer Dialer, timeout time.Duration) *Impl {
	return &Impl{
		dialer:  dialer,
		timeout: timeout,
		logger:  logger,
	}
}

// Probe attempts one TCP connection to req.IP:req.Port. A failed connection
// is reported as a closed port, not as an error.
func (s *Impl) Probe(ctx context.Context, req models.StatusRequest) (*models.ProbeResult, error) {
	ip := net.ParseIP(req.IP)
	if ip == nil {
		return nil, fmt.Errorf("%w: ip %q is not an IP address", ErrInvalidTarget, req.IP)
	}

	port, err := strconv.ParseUint(req.Port, 10, 16)
	if err != nil || port == 0 {
		return nil, fmt.Errorf("%w: port %q is not in 1-65535", ErrInvalidTarget, req.Port)
	}

	addr := net.JoinHostPort(ip.String(), strconv.FormatUint(port, 10))
	result := &models.ProbeResult{IP: req.IP, Port: req.Port}

	s.logger.Debug().Str("addr", addr).Dur("timeout", s.timeout).Msg("checking if port is open")

	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	conn, err := s.dialer.DialContext(dialCtx, "tcp", addr)
	result.Duration = time.Since(start)
	if err != nil {
		s.logger.Debug().Err(err).Str("addr", addr).Msg("port is closed")
		return result, nil
	}
	_ = conn.Close()

	result.Open = true
	return result, nil
}
