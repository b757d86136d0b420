package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of an optimistic action.
const (
	OutcomeConfirmed  = "confirmed"
	OutcomeRolledBack = "rolled_back"
	OutcomeDiscarded  = "discarded"
)

var (
	// SocialActionOutcomes counts reconciled optimistic actions by action and outcome.
	SocialActionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_social_action_outcomes_total",
		Help: "Optimistic social actions by action and reconciliation outcome",
	}, []string{"action", "outcome"})

	// CommentSubmissions counts comment submissions by result code.
	CommentSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_comment_submissions_total",
		Help: "Comment submissions by result",
	}, []string{"result"})

	// CMSRequestLatency records CMS request latency by method, route and status.
	CMSRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placement_cms_request_latency_seconds",
		Help:    "Latency of requests to the headless CMS in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// CommentCacheLookups counts comment cache lookups by result (hit|miss|error).
	CommentCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_comment_cache_lookups_total",
		Help: "Comment cache lookups by result",
	}, []string{"result"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// RecordOutcome increments the outcome counter for action.
func RecordOutcome(action, outcome string) {
	SocialActionOutcomes.WithLabelValues(action, outcome).Inc()
}

// ObserveCMSRequest records the latency of a CMS request.
func ObserveCMSRequest(method, route, status string, d time.Duration) {
	CMSRequestLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}
