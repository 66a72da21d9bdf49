package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/school-admin-gateway/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	gridToggles      *prometheus.CounterVec
	gridSessions     prometheus.Gauge
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter

	requestCount          uint64
	requestDurationTotal  uint64
	upstreamCount         uint64
	upstreamFailures      uint64
	upstreamDurationTotal uint64
	toggleCount           uint64
	toggleFailures        uint64
	cacheHitCount         uint64
	cacheMissCount        uint64
	activeSessions        int64
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

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of calls to the school API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Calls to the school API by outcome; status 0 means the request did not complete",
	}, []string{"method", "route", "status"})

	gridToggles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grid_toggle_total",
		Help: "Payment grid toggles by result",
	}, []string{"result"})

	gridSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "grid_sessions_active",
		Help: "Payment grid view models held in memory",
	})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, upstreamTotal, gridToggles, gridSessions,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		upstreamTotal:    upstreamTotal,
		gridToggles:      gridToggles,
		gridSessions:     gridSessions,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
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
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveUpstream records one call to the school API. It satisfies upstream.Observer.
func (m *MetricsService) ObserveUpstream(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.upstreamTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	atomic.AddUint64(&m.upstreamCount, 1)
	atomic.AddUint64(&m.upstreamDurationTotal, uint64(duration.Nanoseconds()))
	if status == 0 || status >= 300 {
		atomic.AddUint64(&m.upstreamFailures, 1)
	}
}

// RecordGridToggle counts a payment grid toggle by outcome.
func (m *MetricsService) RecordGridToggle(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
		atomic.AddUint64(&m.toggleFailures, 1)
	}
	m.gridToggles.WithLabelValues(result).Inc()
	atomic.AddUint64(&m.toggleCount, 1)
}

// SetGridSessions publishes the number of live grid view models.
func (m *MetricsService) SetGridSessions(n int) {
	if m == nil {
		return
	}
	m.gridSessions.Set(float64(n))
	atomic.StoreInt64(&m.activeSessions, int64(n))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// Snapshot returns aggregated metrics for the status endpoint.
func (m *MetricsService) Snapshot() models.GatewayMetrics {
	if m == nil {
		return models.GatewayMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	upstream := atomic.LoadUint64(&m.upstreamCount)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	return models.GatewayMetrics{
		RequestsTotal:             requests,
		AverageRequestDurationMs:  averageMs(atomic.LoadUint64(&m.requestDurationTotal), requests),
		UpstreamCalls:             upstream,
		UpstreamFailures:          atomic.LoadUint64(&m.upstreamFailures),
		AverageUpstreamDurationMs: averageMs(atomic.LoadUint64(&m.upstreamDurationTotal), upstream),
		GridToggles:               atomic.LoadUint64(&m.toggleCount),
		GridToggleFailures:        atomic.LoadUint64(&m.toggleFailures),
		CacheHitRatio:             cacheRatio,
		CacheHits:                 hits,
		CacheMisses:               misses,
		ActiveGridSessions:        int(atomic.LoadInt64(&m.activeSessions)),
		Goroutines:                runtime.NumGoroutine(),
		GeneratedAt:               time.Now().UTC(),
	}
}

func averageMs(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
