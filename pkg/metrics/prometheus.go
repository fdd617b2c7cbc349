// Package metrics provides Prometheus metrics for the PitchPulse
// aggregation service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Ingest pipeline.
	recordsIngested  *prometheus.CounterVec
	recordsDuplicate prometheus.Counter
	recordsMalformed prometheus.Counter
	eventsCommitted  *prometheus.CounterVec
	eventsIgnored    *prometheus.CounterVec
	matchBoundaries  prometheus.Counter
	ratingUpdates    prometheus.Counter

	// Queue health.
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter

	// Worker pool.
	workerCount        prometheus.Gauge
	workerErrors       prometheus.Counter
	workerApplyLatency prometheus.Histogram

	// State store.
	trackedPlayers     prometheus.Gauge
	storeShardCount    prometheus.Gauge
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Snapshot export.
	exportedSnapshots prometheus.Counter
	lastExportUnix    prometheus.Gauge

	// Process health.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance backed by a custom registry so the
// default Go collectors never collide with ours.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchpulse",
		subsystem:        "aggregation",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.recordsIngested = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_ingested_total",
		Help: "Raw records accepted from a feed, by source.",
	}, []string{"source"})
	m.recordsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_duplicate_total",
		Help: "Records dropped by the idempotency cache.",
	})
	m.recordsMalformed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_malformed_total",
		Help: "Records dropped because required fields were missing.",
	})
	m.eventsCommitted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_committed_total",
		Help: "Classified events committed to player state, by category.",
	}, []string{"category"})
	m.eventsIgnored = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_ignored_total",
		Help: "Events ignored without state mutation, by reason.",
	}, []string{"reason"})
	m.matchBoundaries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "match_boundaries_total",
		Help: "Match-level records that triggered a fold of match counters.",
	})
	m.ratingUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rating_updates_total",
		Help: "Player ratings advanced at a match boundary.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Events currently buffered across worker queues.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured total queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio in [0,1].",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Successful enqueues.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Successful dequeues.",
	})
	m.queueEnqueueErrs = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Enqueues rejected by backpressure or a closed queue.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Running aggregation workers.",
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Worker-level processing failures.",
	})
	m.workerApplyLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_apply_latency_ms",
		Help:    "End-to-end latency of one event application in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.trackedPlayers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracked_players",
		Help: "Players with state in the store.",
	})
	m.storeShardCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_shard_count",
		Help: "Configured store shards.",
	})
	m.storeUpdateLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_update_latency_ms",
		Help:    "Latency of per-key read-modify-write commits in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_query_latency_ms",
		Help:    "Latency of store reads in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration by endpoint.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint"})

	m.exportedSnapshots = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "exported_snapshots_total",
		Help: "Player snapshots written to the export sink.",
	})
	m.lastExportUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "last_export_unix",
		Help: "Unix time of the last completed export.",
	})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current goroutine count.",
	})
}

// Handler serves the custom registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handler serves the global manager's registry.
func Handler() http.Handler { return globalManager.Handler() }

// Package-level helpers over the global manager.

func RecordRecordIngested(source string) { globalManager.recordsIngested.WithLabelValues(source).Inc() }
func RecordRecordDuplicate()             { globalManager.recordsDuplicate.Inc() }
func RecordRecordMalformed()             { globalManager.recordsMalformed.Inc() }
func RecordEventCommitted(category string) {
	globalManager.eventsCommitted.WithLabelValues(category).Inc()
}
func RecordEventIgnored(reason string) { globalManager.eventsIgnored.WithLabelValues(reason).Inc() }
func RecordMatchBoundary()             { globalManager.matchBoundaries.Inc() }
func RecordRatingUpdates(n int)        { globalManager.ratingUpdates.Add(float64(n)) }

func UpdateQueueSize(n int)            { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)        { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(f float64) { globalManager.queueUtilization.Set(f) }
func RecordQueueEnqueue()              { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()              { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError()         { globalManager.queueEnqueueErrs.Inc() }

func UpdateWorkerCount(n int)             { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerError()                  { globalManager.workerErrors.Inc() }
func RecordWorkerApplyLatency(ms float64) { globalManager.workerApplyLatency.Observe(ms) }

func UpdateTrackedPlayers(n int)          { globalManager.trackedPlayers.Set(float64(n)) }
func UpdateStoreShardCount(n int)         { globalManager.storeShardCount.Set(float64(n)) }
func RecordStoreUpdateLatency(ms float64) { globalManager.storeUpdateLatency.Observe(ms) }
func RecordStoreQueryLatency(ms float64)  { globalManager.storeQueryLatency.Observe(ms) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
func RecordHTTPRequestDuration(endpoint string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func RecordExportedSnapshots(n int, atUnix float64) {
	globalManager.exportedSnapshots.Add(float64(n))
	globalManager.lastExportUnix.Set(atUnix)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
