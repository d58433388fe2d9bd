package tui

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of the SSH server.
type Metrics struct {
	ActiveSessions prometheus.Gauge
	SessionsTotal  prometheus.Counter
	FrameDuration  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ulvestein_active_sessions",
			Help: "Number of SSH sessions currently connected.",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ulvestein_sessions_total",
			Help: "Total number of SSH sessions started.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ulvestein_frame_render_seconds",
			Help:    "Time spent rendering one frame.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{m.ActiveSessions, m.SessionsTotal, m.FrameDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveFrame records one frame render duration. Safe on a nil receiver.
func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.FrameDuration.Observe(d.Seconds())
}

// SessionStarted counts a new session. Safe on a nil receiver.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsTotal.Inc()
	m.ActiveSessions.Inc()
}

// SessionEnded marks a session as gone. Safe on a nil receiver.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
