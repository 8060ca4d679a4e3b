package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPCollector exposes Prometheus metrics for inbound HTTP requests.
type HTTPCollector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// NewHTTPCollector constructs a collector with default histograms/counters.
func NewHTTPCollector() (*HTTPCollector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rocksalt",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rocksalt",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	if err := registry.Register(requestDuration); err != nil {
		return nil, err
	}

	if err := registry.Register(requestTotal); err != nil {
		return nil, err
	}

	collector := &HTTPCollector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}

	return collector, nil
}

// Registry exposes the underlying registry so domain collectors can share
// the same /metrics endpoint.
func (c *HTTPCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *HTTPCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *HTTPCollector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// AggregationCollector records per-run and per-source aggregation outcomes.
type AggregationCollector struct {
	eventsScraped *prometheus.CounterVec
	eventsSaved   *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runErrors     prometheus.Counter
}

// NewAggregationCollector registers the aggregation metrics on registry.
func NewAggregationCollector(registry *prometheus.Registry) (*AggregationCollector, error) {
	eventsScraped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rocksalt",
		Subsystem: "aggregation",
		Name:      "events_scraped_total",
		Help:      "Events scraped per source, after filtering and validation.",
	}, []string{"source"})

	eventsSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rocksalt",
		Subsystem: "aggregation",
		Name:      "events_saved_total",
		Help:      "Events newly persisted per source.",
	}, []string{"source"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rocksalt",
		Subsystem: "aggregation",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of aggregation runs.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	runErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rocksalt",
		Subsystem: "aggregation",
		Name:      "run_errors_total",
		Help:      "Total errors recorded across aggregation runs.",
	})

	for _, c := range []prometheus.Collector{eventsScraped, eventsSaved, runDuration, runErrors} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &AggregationCollector{
		eventsScraped: eventsScraped,
		eventsSaved:   eventsSaved,
		runDuration:   runDuration,
		runErrors:     runErrors,
	}, nil
}

// RecordSource adds one source's counts from a finished run.
func (c *AggregationCollector) RecordSource(source string, scraped, saved int) {
	if c == nil {
		return
	}
	c.eventsScraped.WithLabelValues(source).Add(float64(scraped))
	c.eventsSaved.WithLabelValues(source).Add(float64(saved))
}

// RecordRun observes a finished run.
func (c *AggregationCollector) RecordRun(duration time.Duration, errCount int) {
	if c == nil {
		return
	}
	c.runDuration.Observe(duration.Seconds())
	c.runErrors.Add(float64(errCount))
}
