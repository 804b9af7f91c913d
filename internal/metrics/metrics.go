package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP requests and the
// duplicate-check pipeline.
type Collector struct {
	registry           *prometheus.Registry
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	dupChecksTotal     *prometheus.CounterVec
	classifierDuration prometheus.Histogram
}

// NewCollector constructs a collector with default histograms/counters.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "partypanther",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "partypanther",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	dupChecksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "partypanther",
		Subsystem: "dupcheck",
		Name:      "checks_total",
		Help:      "Duplicate checks by outcome (matches, clean, skipped, error).",
	}, []string{"outcome"})

	classifierDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "partypanther",
		Subsystem: "dupcheck",
		Name:      "classifier_duration_seconds",
		Help:      "Latency distribution for classifier round trips.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	})

	for _, c := range []prometheus.Collector{requestDuration, requestTotal, dupChecksTotal, classifierDuration} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:           registry,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		dupChecksTotal:     dupChecksTotal,
		classifierDuration: classifierDuration,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveCheck records the outcome of one duplicate check.
func (c *Collector) ObserveCheck(outcome string) {
	c.dupChecksTotal.WithLabelValues(outcome).Inc()
}

// ObserveClassifier records a classifier round-trip latency.
func (c *Collector) ObserveClassifier(d time.Duration) {
	c.classifierDuration.Observe(d.Seconds())
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
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
