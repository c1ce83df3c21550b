package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	received      atomic.Uint64
	rejected      atomic.Uint64
	forwarded     atomic.Uint64
	forwardFailed atomic.Uint64

	// Forward latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	streamClients atomic.Int32
}

// RecordReceived records an accepted webhook.
func (m *Metrics) RecordReceived() {
	m.received.Add(1)
}

// RecordRejected records a request refused before forwarding (bad payload).
func (m *Metrics) RecordRejected() {
	m.rejected.Add(1)
}

// RecordForwarded records a completed forward with its latency.
func (m *Metrics) RecordForwarded(latency time.Duration) {
	m.forwarded.Add(1)
	m.latencySumNs.Add(latency.Nanoseconds())
	m.latencyCount.Add(1)
}

// RecordForwardFailed records a transport-level forwarding failure.
func (m *Metrics) RecordForwardFailed() {
	m.forwardFailed.Add(1)
}

// IncrementStreamClients increments the connected stream client gauge.
func (m *Metrics) IncrementStreamClients() {
	m.streamClients.Add(1)
}

// DecrementStreamClients decrements the connected stream client gauge.
func (m *Metrics) DecrementStreamClients() {
	m.streamClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	Received      uint64    `json:"received"`
	Rejected      uint64    `json:"rejected"`
	Forwarded     uint64    `json:"forwarded"`
	ForwardFailed uint64    `json:"forward_failed"`
	AvgForwardMS  float64   `json:"avg_forward_ms"`
	StreamClients int32     `json:"stream_clients"`
	Timestamp     time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgMS float64
	count := m.latencyCount.Load()
	if count > 0 {
		avgMS = float64(m.latencySumNs.Load()) / float64(count) / 1e6
	}

	return MetricsSnapshot{
		Received:      m.received.Load(),
		Rejected:      m.rejected.Load(),
		Forwarded:     m.forwarded.Load(),
		ForwardFailed: m.forwardFailed.Load(),
		AvgForwardMS:  avgMS,
		StreamClients: m.streamClients.Load(),
		Timestamp:     time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.received.Store(0)
	m.rejected.Store(0)
	m.forwarded.Store(0)
	m.forwardFailed.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.streamClients.Store(0)
}
