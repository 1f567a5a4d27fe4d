package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// RecordScore counts one scored position on the global manager.
func RecordScore(preset string, latencyMs float64) {
	globalManager.RecordScore(preset, latencyMs)
}

// RecordSeries records a generated sample set on the global manager.
func RecordSeries(kind, preset string, points int, latencyMs float64) {
	globalManager.RecordSeries(kind, preset, points, latencyMs)
}

// RecordSeriesRejected counts a refused sample set request.
func RecordSeriesRejected(kind, reason string) {
	globalManager.RecordSeriesRejected(kind, reason)
}

// RecordEventsLoaded counts loaded shot positions.
func RecordEventsLoaded(source string, n int) {
	globalManager.RecordEventsLoaded(source, n)
}

// RecordEventFetchRetry counts a retried remote fetch.
func RecordEventFetchRetry() {
	globalManager.RecordEventFetchRetry()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited counts a rate limited request.
func RecordRateLimited() {
	globalManager.RecordRateLimited()
}

// RecordLiveConnect counts an opened live scoring connection.
func RecordLiveConnect() {
	globalManager.RecordLiveConnect()
}

// RecordLiveDisconnect counts a closed live scoring connection.
func RecordLiveDisconnect() {
	globalManager.RecordLiveDisconnect()
}

// UpdateDatasetsStored sets the number of sample sets held for retrieval.
func UpdateDatasetsStored(count int) {
	globalManager.UpdateDatasetsStored(count)
}

// UpdateWorkerCount sets the pool's concurrency limit.
func UpdateWorkerCount(count int) {
	globalManager.UpdateWorkerCount(count)
}

// RecordWorkerRowStart marks a row as in flight.
func RecordWorkerRowStart() {
	globalManager.RecordWorkerRowStart()
}

// RecordWorkerRowDone marks a row as finished.
func RecordWorkerRowDone(latencyMs float64) {
	globalManager.RecordWorkerRowDone(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RunSystemCollector samples system gauges on the global manager.
func RunSystemCollector(ctx context.Context) {
	globalManager.RunSystemCollector(ctx)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
