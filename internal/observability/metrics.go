package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoblog_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecoblog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LikeToggles counts like toggles by target (post, comment) and resulting action.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoblog_like_toggles_total",
		Help: "Total number of like toggles by target and action",
	}, []string{"target", "action"})

	// ToggleRetries counts toggles retried after a unique-constraint conflict.
	ToggleRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoblog_like_toggle_retries_total",
		Help: "Total number of like toggles retried after a concurrent insert",
	}, []string{"target"})

	// PostsCreated counts created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoblog_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoblog_comments_created_total",
		Help: "Total number of comments created",
	})
)

// DatabaseMetrics records query latency for one repository.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (*DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordToggle increments the toggle counter for target with the liked outcome.
func RecordToggle(target string, liked bool) {
	action := "unlike"
	if liked {
		action = "like"
	}
	LikeToggles.WithLabelValues(target, action).Inc()
}
