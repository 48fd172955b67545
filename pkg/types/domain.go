package types

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// BackendSettings describes per-backend connection settings as configured
// on the inference backend. Credentials are never exposed, only their presence.
type BackendSettings struct {
	// True when an API key or token is configured for this backend.
	// example: true
	APIKeySet bool `json:"api_key_set" example:"true"`
	// Base URL the backend is reached at.
	// example: http://127.0.0.1:11434
	BaseURL string `json:"base_url,omitempty" example:"http://127.0.0.1:11434"`
	// Whether the backend is enabled for routing.
	// example: true
	Enabled bool `json:"enabled" example:"true"`
}

// ModelDescriptor describes a model known to the configuration.
type ModelDescriptor struct {
	// Backend that owns the model (e.g., local, remote).
	// example: local
	Backend string `json:"backend" example:"local"`
	// Context window in tokens.
	// example: 4096
	ContextWindow int `json:"context_window" example:"4096"`
	// Maximum tokens per completion.
	// example: 1024
	MaxTokens int `json:"max_tokens" example:"1024"`
}

// Configuration is the active inference configuration.
type Configuration struct {
	// Identifier of the active backend.
	// example: local
	ActiveBackend string `json:"active_backend" example:"local"`
	// Identifier of the active model.
	// example: llama-2-7b
	ActiveModel string `json:"active_model" example:"llama-2-7b"`
	// Per-backend settings keyed by backend identifier.
	Backends map[string]BackendSettings `json:"backends"`
	// Known models keyed by model identifier.
	Models map[string]ModelDescriptor `json:"models"`
}

// BackendStatus is one backend's health record.
type BackendStatus struct {
	// Backend identifier.
	// example: local
	Backend string `json:"backend" example:"local"`
	// Whether the backend answered its health probe at all.
	// example: true
	Available bool `json:"available" example:"true"`
	// Whether the backend reported itself healthy.
	// example: true
	Healthy bool `json:"healthy" example:"true"`
	// Health probe round-trip in milliseconds; 0 when unavailable.
	// example: 42
	ResponseTimeMs int64 `json:"response_time_ms,omitempty" example:"42"`
	// Error message from the last probe, if any.
	ErrorMessage string `json:"error_message,omitempty"`
	// When the backend was last probed.
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// LocalModel describes one model file known to the local runtime.
type LocalModel struct {
	// Model name as reported by the runtime.
	// example: llama-2-7b
	Name string `json:"name" example:"llama-2-7b"`
	// On-disk size in GB.
	// example: 3.8
	SizeGB float64 `json:"size_gb" example:"3.8"`
	// Whether the model is currently loaded into memory.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Context window in tokens.
	// example: 4096
	ContextWindow int `json:"context_window" example:"4096"`
	// Maximum tokens per completion.
	// example: 1024
	MaxTokens int `json:"max_tokens" example:"1024"`
	// Last time the model served a request, if known.
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// LocalInventory is the local runtime's model inventory.
type LocalInventory struct {
	Models []LocalModel `json:"models"`
	// Names of models currently loaded into memory. Order is not
	// significant; use LoadedSet for membership checks.
	LoadedNames []string `json:"loaded_names"`
}

// LoadedSet returns the loaded model names as a set.
func (inv LocalInventory) LoadedSet() mapset.Set[string] {
	return mapset.NewSet(inv.LoadedNames...)
}

// RemoteStatus is the hosted-model API connectivity status.
type RemoteStatus struct {
	// Whether the remote API is reachable and authenticated.
	// example: true
	Connected bool `json:"connected" example:"true"`
	// Remaining account credits, when the provider reports them.
	CreditsRemaining *float64 `json:"credits_remaining,omitempty"`
	// Remaining requests in the current rate-limit window.
	RateLimitRemaining *int64 `json:"rate_limit_remaining,omitempty"`
	// Error message from the last connectivity check, if any.
	ErrorMessage string `json:"error_message,omitempty"`
}

// RemoteCatalog lists models offered by the hosted-model API.
type RemoteCatalog struct {
	ModelNames []string `json:"model_names"`
	// Total models in the provider catalog (may exceed len(ModelNames)).
	// example: 120
	Total int `json:"total" example:"120"`
}

// HealthSummary is the backend-derived rollup across all sources.
type HealthSummary struct {
	// Health string per backend identifier (e.g., healthy, degraded, down).
	PerBackendStatus map[string]string `json:"per_backend_status"`
	// Number of local models currently loaded.
	// example: 1
	LocalLoadedCount int `json:"local_loaded_count" example:"1"`
	// Number of local models available on disk.
	// example: 4
	LocalAvailableCount int `json:"local_available_count" example:"4"`
	// Whether the remote API is connected.
	// example: true
	RemoteConnected bool `json:"remote_connected" example:"true"`
	// Active backend identifier.
	// example: local
	ActiveBackend string `json:"active_backend" example:"local"`
	// Active model identifier.
	// example: llama-2-7b
	ActiveModel string `json:"active_model" example:"llama-2-7b"`
	// True when every enabled backend is healthy.
	// example: true
	SystemHealthy bool `json:"system_healthy" example:"true"`
}

// PerformanceMetrics aggregates request metrics for one backend and window.
type PerformanceMetrics struct {
	TotalRequests      int64 `json:"total_requests" example:"1200"`
	SuccessfulRequests int64 `json:"successful_requests" example:"1180"`
	FailedRequests     int64 `json:"failed_requests" example:"20"`
	// Mean response time in milliseconds.
	// example: 310.5
	AverageResponseTimeMs float64 `json:"average_response_time_ms" example:"310.5"`
	TotalTokensUsed       int64   `json:"total_tokens_used" example:"482000"`
	// Failed / total, in [0,1].
	// example: 0.016
	ErrorRate float64 `json:"error_rate" example:"0.016"`
	// Uptime percentage over the window, in [0,100].
	// example: 99.2
	UptimePercentage float64 `json:"uptime_percentage" example:"99.2"`
}

// PerformanceReport is one backend's metrics over a time range.
type PerformanceReport struct {
	// Backend identifier.
	// example: remote
	Backend string `json:"backend" example:"remote"`
	// Human-readable window the metrics cover.
	// example: 24h
	TimeRange string             `json:"time_range" example:"24h"`
	Metrics   PerformanceMetrics `json:"metrics"`
	// When the backend generated the report.
	GeneratedAt time.Time `json:"generated_at"`
}
