// Package metrics provides Prometheus metrics for the AUBE service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the AUBE service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	frameBuckets     []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Animation
	framesRendered  *prometheus.CounterVec
	framesSkipped   *prometheus.CounterVec
	frameDuration   *prometheus.HistogramVec
	sceneParticles  *prometheus.GaugeVec
	sceneActive     *prometheus.GaugeVec
	sceneFPS        *prometheus.GaugeVec
	inputsAccepted  *prometheus.CounterVec
	inputsRejected  *prometheus.CounterVec
	scenesRunning   prometheus.Gauge
	sceneResizes    *prometheus.CounterVec
	snapshotLatency prometheus.Histogram

	// Queue
	queueCapacity          *prometheus.GaugeVec
	queueSize              *prometheus.GaugeVec
	queueUtilization       *prometheus.GaugeVec
	queueEnqueueRate       *prometheus.CounterVec
	queueDequeueRate       *prometheus.CounterVec
	queueEnqueueErrors     *prometheus.CounterVec
	queueProcessingLatency prometheus.Histogram

	// Assistant
	chatRequests   *prometheus.CounterVec
	chatLatency    prometheus.Histogram
	chatDuplicates prometheus.Counter
	breakerState   *prometheus.GaugeVec

	// Dataset
	datasetRecords  prometheus.Gauge
	datasetCritical prometheus.Gauge
	datasetZones    prometheus.Gauge

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "aube",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		frameBuckets:     []float64{0.25, 0.5, 1, 2, 4, 8, 16, 33, 66},
		constLabels:      map[string]string{},
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
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	// HTTP
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Animation
	m.framesRendered = auto.NewCounterVec(
		m.counterOpts("frames_rendered_total", "Total number of frames drawn per scene"),
		[]string{"scene"},
	)
	m.framesSkipped = auto.NewCounterVec(
		m.counterOpts("frames_skipped_total", "Frames skipped because the scene had no surface"),
		[]string{"scene"},
	)
	m.frameDuration = auto.NewHistogramVec(
		m.histogramOpts("frame_duration_milliseconds", "Time spent stepping and drawing one frame", m.frameBuckets),
		[]string{"scene"},
	)
	m.sceneParticles = auto.NewGaugeVec(
		m.gaugeOpts("scene_particles", "Number of particles in a scene"),
		[]string{"scene"},
	)
	m.sceneActive = auto.NewGaugeVec(
		m.gaugeOpts("scene_active", "1 while an icon cloud is visible and converging"),
		[]string{"scene"},
	)
	m.sceneFPS = auto.NewGaugeVec(
		m.gaugeOpts("scene_frames_per_second", "Measured frame rate per scene"),
		[]string{"scene"},
	)
	m.inputsAccepted = auto.NewCounterVec(
		m.counterOpts("scene_inputs_accepted_total", "Scene inputs applied between frames"),
		[]string{"scene", "kind"},
	)
	m.inputsRejected = auto.NewCounterVec(
		m.counterOpts("scene_inputs_rejected_total", "Scene inputs dropped (queue full or scene stopped)"),
		[]string{"scene", "kind"},
	)
	m.scenesRunning = auto.NewGauge(m.gaugeOpts("scenes_running", "Number of running animation loops"))
	m.sceneResizes = auto.NewCounterVec(
		m.counterOpts("scene_resizes_total", "Particle batch regenerations caused by resizes"),
		[]string{"scene"},
	)
	m.snapshotLatency = auto.NewHistogram(
		m.histogramOpts("snapshot_latency_milliseconds", "Time to obtain a frame snapshot from a loop", m.histogramBuckets),
	)

	// Queue
	m.queueCapacity = auto.NewGaugeVec(m.gaugeOpts("queue_capacity", "Maximum queue capacity"), []string{"queue"})
	m.queueSize = auto.NewGaugeVec(m.gaugeOpts("queue_size", "Current queue size"), []string{"queue"})
	m.queueUtilization = auto.NewGaugeVec(
		m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"),
		[]string{"queue"},
	)
	m.queueEnqueueRate = auto.NewCounterVec(m.counterOpts("queue_enqueue_total", "Total number of inputs enqueued"), []string{"queue"})
	m.queueDequeueRate = auto.NewCounterVec(m.counterOpts("queue_dequeue_total", "Total number of inputs dequeued"), []string{"queue"})
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue errors"),
		[]string{"queue", "reason"},
	)
	m.queueProcessingLatency = auto.NewHistogram(
		m.histogramOpts("queue_processing_latency_milliseconds", "Queue enqueue latency in milliseconds", m.histogramBuckets),
	)

	// Assistant
	m.chatRequests = auto.NewCounterVec(
		m.counterOpts("chat_requests_total", "Assistant requests by mode and outcome"),
		[]string{"mode", "outcome"},
	)
	m.chatLatency = auto.NewHistogram(
		m.histogramOpts("chat_latency_milliseconds", "Assistant reply latency in milliseconds",
			[]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}),
	)
	m.chatDuplicates = auto.NewCounter(m.counterOpts("chat_duplicates_total", "Chat messages acknowledged as duplicates"))
	m.breakerState = auto.NewGaugeVec(
		m.gaugeOpts("breaker_state", "Circuit breaker state (0 closed, 1 half-open, 2 open)"),
		[]string{"name"},
	)

	// Dataset
	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Number of prediction records loaded"))
	m.datasetCritical = auto.NewGauge(m.gaugeOpts("dataset_critical_records", "Records with a predicted tension above 1.5"))
	m.datasetZones = auto.NewGauge(m.gaugeOpts("dataset_zones_in_tension", "Zones whose mean predicted tension is critical"))

	// Errors
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordFrame counts a drawn frame and its duration.
func RecordFrame(scene string, durationMs float64) {
	globalManager.framesRendered.WithLabelValues(scene).Inc()
	globalManager.frameDuration.WithLabelValues(scene).Observe(durationMs)
}

// RecordFrameSkipped counts a frame that had nothing to draw on.
func RecordFrameSkipped(scene string) {
	globalManager.framesSkipped.WithLabelValues(scene).Inc()
}

// UpdateSceneParticles sets the particle count of a scene.
func UpdateSceneParticles(scene string, count int) {
	globalManager.sceneParticles.WithLabelValues(scene).Set(float64(count))
}

// UpdateSceneActive sets the activation flag of a scene.
func UpdateSceneActive(scene string, active bool) {
	v := 0.0
	if active {
		v = 1
	}
	globalManager.sceneActive.WithLabelValues(scene).Set(v)
}

// UpdateSceneFPS sets the measured frame rate of a scene.
func UpdateSceneFPS(scene string, fps float64) {
	globalManager.sceneFPS.WithLabelValues(scene).Set(fps)
}

// RecordInputAccepted counts an input applied to a scene.
func RecordInputAccepted(scene, kind string) {
	globalManager.inputsAccepted.WithLabelValues(scene, kind).Inc()
}

// RecordInputRejected counts an input dropped by a scene.
func RecordInputRejected(scene, kind string) {
	globalManager.inputsRejected.WithLabelValues(scene, kind).Inc()
}

// UpdateScenesRunning sets the number of running loops.
func UpdateScenesRunning(count int) {
	globalManager.scenesRunning.Set(float64(count))
}

// RecordSceneResize counts a particle batch regeneration.
func RecordSceneResize(scene string) {
	globalManager.sceneResizes.WithLabelValues(scene).Inc()
}

// RecordSnapshotLatency records the time taken to obtain a frame.
func RecordSnapshotLatency(latencyMs float64) {
	globalManager.snapshotLatency.Observe(latencyMs)
}

// UpdateQueueCapacity sets the capacity of a named queue.
func UpdateQueueCapacity(queue string, capacity int) {
	globalManager.queueCapacity.WithLabelValues(queue).Set(float64(capacity))
}

// UpdateQueueSize sets the current size of a named queue.
func UpdateQueueSize(queue string, size int) {
	globalManager.queueSize.WithLabelValues(queue).Set(float64(size))
}

// UpdateQueueUtilization sets the utilization of a named queue.
func UpdateQueueUtilization(queue string, utilization float64) {
	globalManager.queueUtilization.WithLabelValues(queue).Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue(queue string) {
	globalManager.queueEnqueueRate.WithLabelValues(queue).Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue(queue string) {
	globalManager.queueDequeueRate.WithLabelValues(queue).Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError(queue, reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(queue, reason).Inc()
}

// RecordQueueProcessingLatency records enqueue latency in milliseconds.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// RecordChatRequest counts an assistant request.
func RecordChatRequest(mode, outcome string) {
	globalManager.chatRequests.WithLabelValues(mode, outcome).Inc()
}

// RecordChatLatency records assistant latency in milliseconds.
func RecordChatLatency(latencyMs float64) {
	globalManager.chatLatency.Observe(latencyMs)
}

// RecordChatDuplicate counts a duplicate chat message.
func RecordChatDuplicate() {
	globalManager.chatDuplicates.Inc()
}

// UpdateBreakerState sets the state of a named circuit breaker.
func UpdateBreakerState(name string, state int) {
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// UpdateDatasetRecords sets the number of loaded records.
func UpdateDatasetRecords(count int) {
	globalManager.datasetRecords.Set(float64(count))
}

// UpdateDatasetCritical sets the number of critical records.
func UpdateDatasetCritical(count int) {
	globalManager.datasetCritical.Set(float64(count))
}

// UpdateDatasetZones sets the number of zones in tension.
func UpdateDatasetZones(count int) {
	globalManager.datasetZones.Set(float64(count))
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
