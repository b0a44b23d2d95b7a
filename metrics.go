package medauth

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint8

const (
	// MetricAuthSuccess counts successful authentications.
	MetricAuthSuccess MetricID = iota
	// MetricAuthInvalidCredentials counts credential rejections.
	MetricAuthInvalidCredentials
	// MetricAuthInactiveAccount counts provider-status rejections.
	MetricAuthInactiveAccount
	// MetricAuthRateLimited counts attempts denied by the attempt window.
	MetricAuthRateLimited
	// MetricAuthInvalidFormat counts identifiers rejected before any lookup.
	MetricAuthInvalidFormat
	// MetricAuthMissingCredentials counts requests rejected for omitting the
	// identifier or a required secondary factor.
	MetricAuthMissingCredentials
	// MetricAuthInternalError counts attempts that ended in a system fault.
	MetricAuthInternalError
	// MetricLimiterDegraded counts limiter-backend outages survived by
	// failing open.
	MetricLimiterDegraded
	// MetricMarkAuthenticatedFailed counts best-effort store callbacks that
	// did not land.
	MetricMarkAuthenticatedFailed

	metricIDCount
)

// Metrics holds atomic counters. All operations are no-ops when disabled.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a Metrics instance per cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot deep-copies current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
