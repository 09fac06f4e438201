// Package metrics exposes Prometheus instrumentation for the v8 game
// server: handshake outcomes, active session counts, and bulk-transport
// byte counters.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the server's Prometheus instrument set.
type Metrics struct {
	// Counters
	ConnectionsTotal     prometheus.Counter
	HandshakesCompleted  prometheus.Counter
	HandshakesAbandoned  prometheus.Counter
	AuthFailures         prometheus.Counter
	BytesEncrypted       prometheus.Counter
	BytesDecrypted       prometheus.Counter

	// Gauges
	ActiveConnections prometheus.Gauge
	ActiveSessions    prometheus.Gauge

	// Histograms
	HandshakeDuration  prometheus.Histogram
	ConnectionDuration prometheus.Histogram

	// Internal counters for non-Prometheus consumers, read through Stats.
	totalConnections int64
	totalHandshakes  int64
}

// NewMetrics creates and registers a Metrics instance under namespace. An
// empty namespace defaults to "v8session".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "v8session"
	}

	m := &Metrics{
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of TCP connections accepted",
		}),
		HandshakesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_completed_total",
			Help:      "Total number of sessions that reached SECOND_KEY",
		}),
		HandshakesAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_abandoned_total",
			Help:      "Total number of connections closed before reaching SECOND_KEY",
		}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of box/secretbox authentication failures",
		}),
		BytesEncrypted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_encrypted_total",
			Help:      "Total plaintext bytes sealed",
		}),
		BytesDecrypted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_decrypted_total",
			Help:      "Total plaintext bytes opened",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Number of currently open TCP connections",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions currently open (handshake started, not yet closed or abandoned)",
		}),
		HandshakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handshake_duration_seconds",
			Help:      "Time from connection accept to SECOND_KEY",
			Buckets:   prometheus.DefBuckets,
		}),
		ConnectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "connection_duration_seconds",
			Help:      "Connection lifetime in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		}),
	}

	prometheus.MustRegister(
		m.ConnectionsTotal,
		m.HandshakesCompleted,
		m.HandshakesAbandoned,
		m.AuthFailures,
		m.BytesEncrypted,
		m.BytesDecrypted,
		m.ActiveConnections,
		m.ActiveSessions,
		m.HandshakeDuration,
		m.ConnectionDuration,
	)

	return m
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordConnection records a newly accepted TCP connection.
func (m *Metrics) RecordConnection() {
	m.ConnectionsTotal.Inc()
	m.ActiveConnections.Inc()
	atomic.AddInt64(&m.totalConnections, 1)
}

// RecordDisconnection records a connection closing after duration.
func (m *Metrics) RecordDisconnection(duration time.Duration) {
	m.ActiveConnections.Dec()
	m.ConnectionDuration.Observe(duration.Seconds())
}

// RecordHandshakeStart records a session's handshake beginning.
func (m *Metrics) RecordHandshakeStart() {
	m.ActiveSessions.Inc()
}

// RecordHandshakeComplete records a session reaching SECOND_KEY after
// duration.
func (m *Metrics) RecordHandshakeComplete(duration time.Duration) {
	m.HandshakesCompleted.Inc()
	m.HandshakeDuration.Observe(duration.Seconds())
	atomic.AddInt64(&m.totalHandshakes, 1)
}

// RecordHandshakeAbandoned records a session closed before SECOND_KEY.
func (m *Metrics) RecordHandshakeAbandoned() {
	m.ActiveSessions.Dec()
	m.HandshakesAbandoned.Inc()
}

// RecordSessionClosed records an established session's closure.
func (m *Metrics) RecordSessionClosed() {
	m.ActiveSessions.Dec()
}

// RecordAuthFailure records a MAC verification failure on decrypt.
func (m *Metrics) RecordAuthFailure() {
	m.AuthFailures.Inc()
}

// RecordEncrypted records plaintext bytes sealed by Encrypt.
func (m *Metrics) RecordEncrypted(n int) {
	m.BytesEncrypted.Add(float64(n))
}

// RecordDecrypted records plaintext bytes opened by Decrypt.
func (m *Metrics) RecordDecrypted(n int) {
	m.BytesDecrypted.Add(float64(n))
}

// ServerStats summarizes non-Prometheus counters for plain-text status
// output such as log lines.
type ServerStats struct {
	TotalConnections int64
	TotalHandshakes  int64
	Uptime           time.Duration
}

// Stats returns a ServerStats snapshot, computing Uptime from startTime.
func (m *Metrics) Stats(startTime time.Time) ServerStats {
	return ServerStats{
		TotalConnections: atomic.LoadInt64(&m.totalConnections),
		TotalHandshakes:  atomic.LoadInt64(&m.totalHandshakes),
		Uptime:           time.Since(startTime),
	}
}
