package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// DatasetParam is the chi URL parameter naming the dataset of a request.
const DatasetParam = "name"

var httpLabels = []string{"method", "path", "dataset", "status"}

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		httpLabels,
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, dataset and status",
		},
		httpLabels,
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records HTTP request duration and count, labelled with the
// chi route pattern and the dataset addressed by the request.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			labels := []string{
				r.Method,
				normalizePath(chi.RouteContext(r.Context()).RoutePattern()),
				datasetLabel(r, status),
				strconv.Itoa(status),
			}
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// normalizePath maps unmatched routes to a single label value.
func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}

// datasetLabel returns the dataset named in the path. Names from 404
// responses are dropped so unknown datasets cannot grow the label set.
func datasetLabel(r *http.Request, status int) string {
	if status == http.StatusNotFound {
		return ""
	}
	return chi.URLParam(r, DatasetParam)
}
