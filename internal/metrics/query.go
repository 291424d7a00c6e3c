package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query Prometheus metrics.
var (
	QueryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "query_requests_total",
			Help:      "Total number of dataset queries",
		},
		[]string{"dataset", "op", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "query_duration_seconds",
			Help:      "Dataset query duration in seconds, injected delay included",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"dataset", "op"},
	)

	QueryResultItems = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "query_result_items",
			Help:      "Number of items returned per retrieve",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"dataset"},
	)

	DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sieve",
			Name:      "dataset_records",
			Help:      "Records held by a dataset after its last successful load",
		},
		[]string{"dataset"},
	)
)

// Query status labels.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryRequestsTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryResultItems)
	prometheus.MustRegister(DatasetRecords)
	queryMetricsRegistered = true
}
