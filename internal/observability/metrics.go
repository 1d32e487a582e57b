package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aura_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts posts created, labelled by effective privacy.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_posts_created_total",
		Help: "Total number of posts created by privacy level",
	}, []string{"privacy"})

	// FlagsRecorded counts distinct flag submissions on posts.
	FlagsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_flags_recorded_total",
		Help: "Total number of distinct post flags recorded",
	})

	// PostsAutoRemoved counts posts removed by the flag threshold.
	PostsAutoRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_posts_auto_removed_total",
		Help: "Total number of posts auto-removed after reaching the flag threshold",
	})

	// NotificationsPublished counts notifications fanned out, by type.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_notifications_published_total",
		Help: "Total number of notifications published by type",
	}, []string{"type"})

	// WebSocketConnections is the gauge of active WebSocket connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aura_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketEvents counts WebSocket events by type.
	WebSocketEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})
)

// DatabaseMetrics wraps query latency recording.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
