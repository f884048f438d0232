package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	placesCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafoodfinder_places_api_calls_total",
		Help: "Calls made to the places provider, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	placesCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cafoodfinder_places_api_call_duration_seconds",
		Help:    "Latency of places provider calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafoodfinder_searches_total",
		Help: "Completed food place searches, by status or error kind.",
	}, []string{"status"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cafoodfinder_search_duration_seconds",
		Help:    "End-to-end duration of food place searches.",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	searchRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cafoodfinder_search_rows",
		Help:    "Rows returned per search after filtering and deduplication.",
		Buckets: prometheus.LinearBuckets(0, 10, 10),
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafoodfinder_http_server_requests_total",
		Help: "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cafoodfinder_http_server_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	detailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cafoodfinder_place_detail_failures_total",
		Help: "Place detail fetches that failed and were recorded as partial failures.",
	})
)

// RecordPlacesCall records one call to the places provider
func RecordPlacesCall(endpoint string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	placesCallsTotal.WithLabelValues(endpoint, outcome).Inc()
	placesCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSearch records a finished search. status is the search status or error kind.
func RecordSearch(status string, rows int, duration time.Duration) {
	searchesTotal.WithLabelValues(status).Inc()
	searchDuration.Observe(duration.Seconds())
	searchRows.Observe(float64(rows))
}

// RecordDetailFailure counts a place whose details could not be fetched
func RecordDetailFailure() {
	detailFailuresTotal.Inc()
}

func recordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
