// Package metrics holds the Prometheus collectors shared by the upstream
// client, the aggregation pipeline and the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stack"

// Upstream outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeStatus  = "status"
	OutcomeDecode  = "decode"
	OutcomePartial = "partial"
	OutcomeTimeout = "timeout"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Upstream provider requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Upstream provider request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	RankProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rank_region_probes_total",
		Help:      "Rank lookups issued per region",
	}, []string{"region"})

	HistoryFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_history_fallbacks_total",
		Help:      "Match history lookups that fell back to the canonical id",
	})

	Aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregations_total",
		Help:      "Completed player aggregations, labelled by whether any match matched the handle",
	}, []string{"has_stats"})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "End-to-end player aggregation latency",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code",
	}, []string{"method", "code"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
