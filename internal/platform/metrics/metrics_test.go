package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(ProviderCalls.WithLabelValues("moderate", "error"))
	RecordProviderCall("moderate", "error", 20*time.Millisecond)
	if got := testutil.ToFloat64(ProviderCalls.WithLabelValues("moderate", "error")); got != before+1 {
		t.Fatalf("ProviderCalls = %v, want %v", got, before+1)
	}

	fb := testutil.ToFloat64(AnnotatorFallbacks.WithLabelValues("analyze"))
	RecordFallback("analyze")
	if got := testutil.ToFloat64(AnnotatorFallbacks.WithLabelValues("analyze")); got != fb+1 {
		t.Fatalf("AnnotatorFallbacks = %v", got)
	}

	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("l1", "hit"))
	misses := testutil.ToFloat64(CacheLookups.WithLabelValues("l1", "miss"))
	RecordCache("l1", true)
	RecordCache("l1", false)
	if testutil.ToFloat64(CacheLookups.WithLabelValues("l1", "hit")) != hits+1 ||
		testutil.ToFloat64(CacheLookups.WithLabelValues("l1", "miss")) != misses+1 {
		t.Fatalf("cache counters did not move")
	}

	ObserveStage("curate", time.Now().Add(-time.Millisecond))
}

func TestHandlerExposesCollectors(t *testing.T) {
	BatchChunks.Inc()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "snapverse_batch_chunks_total") {
		t.Fatalf("batch counter missing from exposition")
	}
}
