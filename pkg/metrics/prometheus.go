package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Classification
	teamsClassified       prometheus.Counter
	badgesAssigned        *prometheus.CounterVec
	classificationLatency prometheus.Histogram
	runsSubmitted         prometheus.Counter
	runsDuplicate         prometheus.Counter
	teamsStored           prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueTotal  prometheus.Counter
	queueDequeueTotal  prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "teambadge",
		subsystem:        "classifier",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)

	m.teamsClassified = m.counter("teams_classified_total", "Total number of teams classified")
	m.badgesAssigned = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "badges_assigned_total",
			Help:      "Badges assigned by badge and tier",
		},
		[]string{"badge", "tier"},
	)
	m.classificationLatency = m.histogram("classification_latency_milliseconds", "Time to classify one team in milliseconds")
	m.runsSubmitted = m.counter("runs_submitted_total", "Total number of runs stored")
	m.runsDuplicate = m.counter("runs_duplicate_total", "Total number of resubmitted runs ignored")
	m.teamsStored = m.gauge("teams_stored", "Number of distinct teams with a stored classification")

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.queueSize = m.gauge("queue_size", "Current number of jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of jobs the queue holds")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueueTotal = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeueTotal = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")

	m.workerCount = m.gauge("worker_count", "Number of workers in the pool")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers processing a job")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time a worker spends on one job in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Total number of failed jobs")

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_latency_milliseconds",
			Help:      "Run store operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordTeamClassified increments the teams classified counter.
func RecordTeamClassified() {
	globalManager.teamsClassified.Inc()
}

// RecordBadgeAssigned counts one badge at the given tier.
func RecordBadgeAssigned(badge, tier string) {
	globalManager.badgesAssigned.WithLabelValues(badge, tier).Inc()
}

// RecordClassificationLatency records classification latency in milliseconds.
func RecordClassificationLatency(latencyMs float64) {
	globalManager.classificationLatency.Observe(latencyMs)
}

// RecordRunSubmitted increments the stored runs counter.
func RecordRunSubmitted() {
	globalManager.runsSubmitted.Inc()
}

// RecordRunDuplicate increments the duplicate runs counter.
func RecordRunDuplicate() {
	globalManager.runsDuplicate.Inc()
}

// UpdateTeamsStored sets the number of stored teams.
func UpdateTeamsStored(count int) {
	globalManager.teamsStored.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueTotal.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueTotal.Inc()
}

// RecordQueueEnqueueError increments the rejected enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordStoreLatency records a store operation latency in milliseconds.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMetrics samples heap usage and goroutine count.
func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
