package models

import "time"

// GatewayMetrics summarises instrumentation counters for the status endpoint.
type GatewayMetrics struct {
	RequestsTotal             uint64    `json:"requests_total"`
	AverageRequestDurationMs  float64   `json:"average_request_duration_ms"`
	UpstreamCalls             uint64    `json:"upstream_calls"`
	UpstreamFailures          uint64    `json:"upstream_failures"`
	AverageUpstreamDurationMs float64   `json:"average_upstream_duration_ms"`
	GridToggles               uint64    `json:"grid_toggles"`
	GridToggleFailures        uint64    `json:"grid_toggle_failures"`
	CacheHitRatio             float64   `json:"cache_hit_ratio"`
	CacheHits                 uint64    `json:"cache_hits"`
	CacheMisses               uint64    `json:"cache_misses"`
	ActiveGridSessions        int       `json:"active_grid_sessions"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generated_at"`
}
