// Package metrics exposes Prometheus collectors for the ingestion service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crawlPagesTotal        *prometheus.CounterVec
	crawlListingsTotal     *prometheus.CounterVec
	persistFailuresTotal   *prometheus.CounterVec
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDurationSec *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors. Safe to call more than once; the helpers
// below are no-ops until it has run, so library tests need no registry.
func Init() {
	once.Do(func() {
		crawlPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawl_pages_total",
				Help: "Pages fetched per crawl kind, labeled by outcome.",
			},
			[]string{"kind", "status"},
		)

		crawlListingsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawl_listings_total",
				Help: "Listings handled per crawl kind, labeled extracted or skipped.",
			},
			[]string{"kind", "outcome"},
		)

		persistFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawl_persist_failures_total",
				Help: "Record rows that failed to persist, per crawl kind.",
			},
			[]string{"kind"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSec = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// PageFetched counts one page fetch outcome ("ok" or "error").
func PageFetched(kind, status string) {
	if crawlPagesTotal == nil {
		return
	}
	crawlPagesTotal.WithLabelValues(kind, status).Inc()
}

// ListingsExtracted counts listings successfully pulled from a page.
func ListingsExtracted(kind string, n int) {
	observeListings(kind, "extracted", n)
}

// ListingsSkipped counts malformed listings dropped during extraction.
func ListingsSkipped(kind string, n int) {
	observeListings(kind, "skipped", n)
}

func observeListings(kind, outcome string, n int) {
	if crawlListingsTotal == nil || n <= 0 {
		return
	}
	crawlListingsTotal.WithLabelValues(kind, outcome).Add(float64(n))
}

// PersistFailure counts one failed record write.
func PersistFailure(kind string) {
	if persistFailuresTotal == nil {
		return
	}
	persistFailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if httpRequestsTotal == nil || httpRequestDurationSec == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDurationSec.WithLabelValues(method, route).Observe(duration.Seconds())
}
