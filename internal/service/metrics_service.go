package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/coursereg-client/internal/models"
)

// Reasons a seat-count delta is not applied.
const (
	DropReasonUnknownID = "unknown_id"
	DropReasonInvalid   = "invalid"
	DropReasonClosed    = "closed"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	deltasApplied   prometheus.Counter
	deltasDropped   *prometheus.CounterVec
	streamErrors    prometheus.Counter
	bulkOperations  *prometheus.CounterVec
	bulkItems       *prometheus.CounterVec
	portalDuration  *prometheus.HistogramVec
	catalogSize     prometheus.Gauge

	requestCount         uint64
	requestDurationTotal uint64
	deltasAppliedCount   uint64
	deltasDroppedCount   uint64
	streamErrorCount     uint64
	bulkOperationCount   uint64
	catalogSizeValue     int64
}

// NewMetricsService registers core Prometheus collectors.
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

	deltasApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seat_deltas_applied_total",
		Help: "Seat-count deltas written into the catalog",
	})

	deltasDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_deltas_dropped_total",
		Help: "Seat-count deltas discarded",
	}, []string{"reason"})

	streamErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seat_stream_errors_total",
		Help: "Seat-count stream failures and malformed events",
	})

	bulkOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_operations_total",
		Help: "Bulk enroll/unenroll submissions by result",
	}, []string{"kind", "result"})

	bulkItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_operation_items_total",
		Help: "Per-course outcomes reported by bulk operations",
	}, []string{"kind", "outcome"})

	portalDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_request_duration_seconds",
		Help:    "Duration of requests to the registration portal",
		Buckets: prometheus.DefBuckets,
	}, []string{"call"})

	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_courses",
		Help: "Number of courses held in the catalog",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, deltasApplied, deltasDropped, streamErrors, bulkOperations, bulkItems, portalDuration, catalogSize, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		deltasApplied:   deltasApplied,
		deltasDropped:   deltasDropped,
		streamErrors:    streamErrors,
		bulkOperations:  bulkOperations,
		bulkItems:       bulkItems,
		portalDuration:  portalDuration,
		catalogSize:     catalogSize,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObservePortalCall records the latency of one portal request.
func (m *MetricsService) ObservePortalCall(call string, duration time.Duration) {
	if m == nil {
		return
	}
	m.portalDuration.WithLabelValues(call).Observe(duration.Seconds())
}

// RecordDeltaApplied counts a delta written into the catalog.
func (m *MetricsService) RecordDeltaApplied() {
	if m == nil {
		return
	}
	m.deltasApplied.Inc()
	atomic.AddUint64(&m.deltasAppliedCount, 1)
}

// RecordDeltaDropped counts a delta that was discarded.
func (m *MetricsService) RecordDeltaDropped(reason string) {
	if m == nil {
		return
	}
	m.deltasDropped.WithLabelValues(reason).Inc()
	atomic.AddUint64(&m.deltasDroppedCount, 1)
}

// RecordStreamError counts a stream failure or malformed event.
func (m *MetricsService) RecordStreamError() {
	if m == nil {
		return
	}
	m.streamErrors.Inc()
	atomic.AddUint64(&m.streamErrorCount, 1)
}

// RecordBulkOperation counts a finished bulk submission and its item outcomes.
func (m *MetricsService) RecordBulkOperation(kind models.OperationKind, result string, outcome *models.OperationResult) {
	if m == nil {
		return
	}
	m.bulkOperations.WithLabelValues(string(kind), result).Inc()
	atomic.AddUint64(&m.bulkOperationCount, 1)
	if outcome == nil {
		return
	}
	for _, item := range outcome.Items {
		m.bulkItems.WithLabelValues(string(kind), string(item.Kind)).Inc()
	}
}

// SetCatalogSize publishes the number of catalog records.
func (m *MetricsService) SetCatalogSize(size int) {
	if m == nil {
		return
	}
	m.catalogSize.Set(float64(size))
	atomic.StoreInt64(&m.catalogSizeValue, int64(size))
}

// Snapshot returns aggregated metrics suitable for the summary endpoint.
func (m *MetricsService) Snapshot() models.SyncMetrics {
	if m == nil {
		return models.SyncMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SyncMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DeltasApplied:            atomic.LoadUint64(&m.deltasAppliedCount),
		DeltasDropped:            atomic.LoadUint64(&m.deltasDroppedCount),
		StreamErrors:             atomic.LoadUint64(&m.streamErrorCount),
		BulkOperations:           atomic.LoadUint64(&m.bulkOperationCount),
		CatalogSize:              int(atomic.LoadInt64(&m.catalogSizeValue)),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
