package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPCollectorRecordsMetrics(t *testing.T) {
	collector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector returned error: %v", err)
	}

	handlerInvoked := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerInvoked = true
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	instrumented := collector.InstrumentHandler(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	instrumented.ServeHTTP(rr, req)

	if !handlerInvoked {
		t.Fatal("expected handler to be invoked")
	}

	if rr.Code != http.StatusAccepted {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	metricsRR := httptest.NewRecorder()
	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	collector.Handler().ServeHTTP(metricsRR, metricsReq)

	if metricsRR.Code != http.StatusOK {
		t.Fatalf("expected metrics handler to return 200, got %d", metricsRR.Code)
	}

	body := metricsRR.Body.String()
	if !strings.Contains(body, `rocksalt_http_requests_total{method="GET",path="/test",status="202"} 1`) {
		t.Fatalf("requests_total metric not recorded, body=%q", body)
	}

	if !strings.Contains(body, `rocksalt_http_request_duration_seconds_count{method="GET",path="/test",status="202"} 1`) {
		t.Fatalf("request_duration_seconds_count metric not recorded, body=%q", body)
	}
}

func TestAggregationCollectorRecordsCounts(t *testing.T) {
	httpCollector, err := NewHTTPCollector()
	if err != nil {
		t.Fatalf("NewHTTPCollector returned error: %v", err)
	}

	collector, err := NewAggregationCollector(httpCollector.Registry())
	if err != nil {
		t.Fatalf("NewAggregationCollector returned error: %v", err)
	}

	collector.RecordSource("slugmag", 12, 7)
	collector.RecordSource("piperdown", 3, 3)
	collector.RecordRun(2*time.Second, 1)

	rr := httptest.NewRecorder()
	httpCollector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	for _, want := range []string{
		`rocksalt_aggregation_events_scraped_total{source="slugmag"} 12`,
		`rocksalt_aggregation_events_saved_total{source="slugmag"} 7`,
		`rocksalt_aggregation_events_saved_total{source="piperdown"} 3`,
		`rocksalt_aggregation_run_errors_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metric %q in body=%q", want, body)
		}
	}
}

func TestAggregationCollectorNilSafe(t *testing.T) {
	var collector *AggregationCollector
	collector.RecordSource("slugmag", 1, 1)
	collector.RecordRun(time.Second, 0)
}
