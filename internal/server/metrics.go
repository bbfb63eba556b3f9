package server

import (
	"errors"

	"github.com/fgeck/wol-server/internal/services/auth"
	"github.com/fgeck/wol-server/internal/services/wol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the counters exported on /metrics. Each server owns its
// registry so several servers can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	packetsSent    prometheus.Counter
	dispatchErrors *prometheus.CounterVec
	authRejections *prometheus.CounterVec
	statusProbes   *prometheus.CounterVec
	rateLimited    prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		packetsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wol_magic_packets_sent_total",
			Help: "Number of magic packets handed to the network stack",
		}),
		dispatchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wol_dispatch_errors_total",
			Help: "Number of wake requests that failed, by kind",
		}, []string{"kind"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wol_auth_rejections_total",
			Help: "Number of requests rejected by cookie authentication, by reason",
		}, []string{"reason"}),
		statusProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wol_status_probes_total",
			Help: "Number of status probes, by result",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wol_rate_limited_total",
			Help: "Number of requests rejected by the rate limiter",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.packetsSent,
		m.dispatchErrors,
		m.authRejections,
		m.statusProbes,
		m.rateLimited,
	)

	return m
}

func dispatchKind(err error) string {
	switch {
	case errors.Is(err, wol.ErrInvalidMAC):
		return "invalid_mac"
	case errors.Is(err, wol.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, wol.ErrBindFailed):
		return "bind_failed"
	case errors.Is(err, wol.ErrBroadcastUnsupported):
		return "broadcast_unsupported"
	case errors.Is(err, wol.ErrSendFailed):
		return "send_failed"
	default:
		return "other"
	}
}

func authReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrNoToken):
		return "no_token"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, auth.ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, auth.ErrValueMismatch):
		return "value_mismatch"
	case errors.Is(err, auth.ErrNotConfigured):
		return "not_configured"
	default:
		return "other"
	}
}
