// Package metrics provides Prometheus metrics for the xgmap service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
	nanosPerMillisecond    = 1e6
)

// pointBuckets covers sample sets from a handful of points to a large grid.
var pointBuckets = prometheus.ExponentialBuckets(1, 4, 10) //nolint:gochecknoglobals // bucket layout

// Manager manages all Prometheus metrics for the xgmap service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scoring
	scoresTotal  *prometheus.CounterVec
	scoreLatency prometheus.Histogram

	// Sample sets
	seriesGenerated *prometheus.CounterVec
	seriesPoints    *prometheus.HistogramVec
	seriesLatency   *prometheus.HistogramVec
	seriesRejected  *prometheus.CounterVec
	datasetsStored  prometheus.Gauge

	// Shot event ingestion
	eventsLoaded      *prometheus.CounterVec
	eventFetchRetries prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter
	liveConnections     prometheus.Gauge

	// Worker pool
	workerCount      prometheus.Gauge
	workerBusy       prometheus.Gauge
	workerRows       prometheus.Counter
	workerRowLatency prometheus.Histogram

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram

	lastNumGC uint32
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "xgmap",
		subsystem:        "xg",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.scoresTotal = auto.NewCounterVec(
		m.counterOpts("scores_total", "Total number of positions scored"),
		[]string{"preset"},
	)
	m.scoreLatency = auto.NewHistogram(
		m.histogramOpts("score_latency_milliseconds", "Single position scoring latency in milliseconds", m.histogramBuckets),
	)

	m.seriesGenerated = auto.NewCounterVec(
		m.counterOpts("series_generated_total", "Total number of sample sets generated"),
		[]string{"kind", "preset"},
	)
	m.seriesPoints = auto.NewHistogramVec(
		m.histogramOpts("series_points", "Number of points per generated sample set", pointBuckets),
		[]string{"kind"},
	)
	m.seriesLatency = auto.NewHistogramVec(
		m.histogramOpts("series_latency_milliseconds", "Sample set generation latency in milliseconds", m.histogramBuckets),
		[]string{"kind"},
	)
	m.seriesRejected = auto.NewCounterVec(
		m.counterOpts("series_rejected_total", "Sample set requests rejected before generation"),
		[]string{"kind", "reason"},
	)

	m.eventsLoaded = auto.NewCounterVec(
		m.counterOpts("events_loaded_total", "Shot positions loaded from event files"),
		[]string{"source"},
	)
	m.eventFetchRetries = auto.NewCounter(
		m.counterOpts("event_fetch_retries_total", "Retried remote event fetches"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRateLimited = auto.NewCounter(
		m.counterOpts("http_rate_limited_total", "Requests rejected by the rate limiter"),
	)

	m.liveConnections = auto.NewGauge(m.gaugeOpts("live_connections", "Open live scoring websockets"))
	m.datasetsStored = auto.NewGauge(m.gaugeOpts("datasets_stored", "Sample sets kept for retrieval by ID"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Maximum concurrent rows in the worker pool"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Rows currently being evaluated"))
	m.workerRows = auto.NewCounter(m.counterOpts("worker_rows_total", "Rows evaluated by the worker pool"))
	m.workerRowLatency = auto.NewHistogram(
		m.histogramOpts("worker_row_latency_milliseconds", "Per-row evaluation latency in milliseconds", m.histogramBuckets),
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordScore counts one scored position.
func (m *Manager) RecordScore(preset string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.scoresTotal.WithLabelValues(preset).Inc()
	m.scoreLatency.Observe(latencyMs)
}

// RecordSeries records a generated sample set. Every point is also counted
// as a score.
func (m *Manager) RecordSeries(kind, preset string, points int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.seriesGenerated.WithLabelValues(kind, preset).Inc()
	m.seriesPoints.WithLabelValues(kind).Observe(float64(points))
	m.seriesLatency.WithLabelValues(kind).Observe(latencyMs)
	m.scoresTotal.WithLabelValues(preset).Add(float64(points))
}

// RecordSeriesRejected counts a request refused before generation.
func (m *Manager) RecordSeriesRejected(kind, reason string) {
	if !m.enabled {
		return
	}
	m.seriesRejected.WithLabelValues(kind, reason).Inc()
}

// RecordEventsLoaded counts shot positions read from source ("file" or "url").
func (m *Manager) RecordEventsLoaded(source string, n int) {
	if !m.enabled {
		return
	}
	m.eventsLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordEventFetchRetry counts one retried remote fetch.
func (m *Manager) RecordEventFetchRetry() {
	if !m.enabled {
		return
	}
	m.eventFetchRetries.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *Manager) RecordRateLimited() {
	if !m.enabled {
		return
	}
	m.httpRateLimited.Inc()
}

// RecordLiveConnect counts an opened live scoring connection.
func (m *Manager) RecordLiveConnect() {
	if !m.enabled {
		return
	}
	m.liveConnections.Inc()
}

// RecordLiveDisconnect counts a closed live scoring connection.
func (m *Manager) RecordLiveDisconnect() {
	if !m.enabled {
		return
	}
	m.liveConnections.Dec()
}

// UpdateDatasetsStored sets the number of sample sets held for retrieval.
func (m *Manager) UpdateDatasetsStored(count int) {
	if !m.enabled {
		return
	}
	m.datasetsStored.Set(float64(count))
}

// UpdateWorkerCount sets the pool's concurrency limit.
func (m *Manager) UpdateWorkerCount(count int) {
	if !m.enabled {
		return
	}
	m.workerCount.Set(float64(count))
}

// RecordWorkerRowStart marks a row as in flight.
func (m *Manager) RecordWorkerRowStart() {
	if !m.enabled {
		return
	}
	m.workerBusy.Inc()
}

// RecordWorkerRowDone marks a row as finished.
func (m *Manager) RecordWorkerRowDone(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.workerBusy.Dec()
	m.workerRows.Inc()
	m.workerRowLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// SampleSystem reads runtime statistics into the system gauges.
func (m *Manager) SampleSystem() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapInuse))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	// PauseNs is a ring buffer of the last 256 pauses.
	first := m.lastNumGC
	if ms.NumGC-first > uint32(len(ms.PauseNs)) {
		first = ms.NumGC - uint32(len(ms.PauseNs))
	}
	for i := first; i < ms.NumGC; i++ {
		m.systemGCPauseTime.Observe(float64(ms.PauseNs[i%uint32(len(ms.PauseNs))]) / nanosPerMillisecond)
	}
	m.lastNumGC = ms.NumGC
}

// RunSystemCollector samples system gauges every refresh interval until ctx
// is done.
func (m *Manager) RunSystemCollector(ctx context.Context) {
	if !m.enabled {
		return
	}
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	m.SampleSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SampleSystem()
		}
	}
}
