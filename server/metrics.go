package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

// metrics live on a per-Server registry so several servers (and tests) can
// coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	matchedRecords  prometheus.Histogram
	datasetRecords  prometheus.Gauge
}

func newMetrics(records int) *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "diamonds_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diamonds_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"route"}),
		matchedRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "diamonds_filter_matched_records",
			Help:    "Number of records left after the dashboard filter",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		datasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "diamonds_dataset_records",
			Help: "Number of records in the loaded dataset",
		}),
	}
	m.datasetRecords.Set(float64(records))
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument counts and times every request by its matched route pattern.
func instrument(m *metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var route string
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			m.requestDuration.WithLabelValues(route).Observe(v)
		}))
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		// ServeMux records the matched pattern on the request.
		route = r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		timer.ObserveDuration()
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
