package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for both the API and the command line tool.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	datastoreDuration *prometheus.HistogramVec
	datastoreTotal    *prometheus.CounterVec
	cacheLatency      prometheus.Observer
	cacheWrite        prometheus.Observer
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	stageDuration     *prometheus.HistogramVec
	lecturesTotal     prometheus.Counter
	exportsTotal      *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	datastoreDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "datastore_request_duration_seconds",
		Help:    "Duration of open-data datastore queries",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"resource"})

	datastoreTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datastore_requests_total",
		Help: "Datastore queries by resource and outcome",
	}, []string{"resource", "outcome"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of selection, resolution, assembly and export",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	lecturesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lectures_resolved_total",
		Help: "Lectures kept inside the requested window",
	})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_exports_total",
		Help: "Exported calendars by format",
	}, []string{"format"})

	registry.MustRegister(requestDuration, requestTotal, datastoreDuration, datastoreTotal,
		cacheLatency, cacheWrite, cacheHits, cacheMisses, stageDuration, lecturesTotal, exportsTotal)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		datastoreDuration: datastoreDuration,
		datastoreTotal:    datastoreTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		stageDuration:     stageDuration,
		lecturesTotal:     lecturesTotal,
		exportsTotal:      exportsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying gatherer.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile dumps the current metrics in the node exporter textfile format.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDatastoreRequest records a datastore query.
func (m *MetricsService) ObserveDatastoreRequest(resource, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.datastoreDuration.WithLabelValues(resource).Observe(duration.Seconds())
	m.datastoreTotal.WithLabelValues(resource, outcome).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveStage records how long a pipeline stage took.
func (m *MetricsService) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// AddLectures counts lectures produced by the assembler.
func (m *MetricsService) AddLectures(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.lecturesTotal.Add(float64(n))
}

// IncExport counts an exported calendar.
func (m *MetricsService) IncExport(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}
