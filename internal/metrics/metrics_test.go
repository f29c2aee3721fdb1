package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testutilValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	return testutil.ToFloat64(vec.WithLabelValues(labels...))
}

func TestHelpersAreNoOpsBeforeInit(t *testing.T) {
	// Must not panic with nil collectors.
	PageFetched("jobs", "ok")
	ListingsExtracted("jobs", 3)
	ListingsSkipped("salaries", 1)
	PersistFailure("jobs")
	ObserveHTTPRequest("GET", "/api/crawl", 200, time.Millisecond)
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if crawlPagesTotal == nil || crawlListingsTotal == nil || persistFailuresTotal == nil {
		t.Fatal("expected crawl collectors to be registered")
	}
	if httpRequestsTotal == nil || httpRequestDurationSec == nil {
		t.Fatal("expected http collectors to be registered")
	}

	// Exercise every helper against the live collectors.
	PageFetched("jobs", "ok")
	PageFetched("jobs", "error")
	ListingsExtracted("jobs", 10)
	ListingsSkipped("jobs", 2)
	ListingsExtracted("jobs", 0)
	PersistFailure("salaries")
	ObserveHTTPRequest("GET", "/api/crawl", 200, 25*time.Millisecond)

	if testutilValue(t, crawlPagesTotal, "jobs", "ok") != 1 {
		t.Error("expected one ok page fetch")
	}
	if testutilValue(t, crawlListingsTotal, "jobs", "extracted") != 10 {
		t.Error("expected ten extracted listings")
	}
}
