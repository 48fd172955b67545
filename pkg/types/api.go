package types

// SwitchRequest selects the active backend and model.
type SwitchRequest struct {
	// Target backend identifier.
	// example: remote
	Backend string `json:"backend" example:"remote"`
	// Target model identifier.
	// example: gpt-4
	Model string `json:"model" example:"gpt-4"`
}

// LocalModelRequest names a local model to load or unload.
type LocalModelRequest struct {
	// Local model name.
	// example: llama-2-7b
	Name string `json:"name" example:"llama-2-7b"`
}

// DashboardResponse is returned by GET /dashboard.
type DashboardResponse struct {
	// Controller state: pending, ready or failed.
	// example: ready
	State string `json:"state" example:"ready"`
	// Error message when state is failed.
	Error string `json:"error,omitempty"`
	// True while a refresh or control operation is in flight.
	// example: false
	IsRefreshing bool `json:"is_refreshing" example:"false"`
	// Aggregate fields; present only when state is ready.
	Configuration      *Configuration      `json:"configuration,omitempty"`
	BackendStatuses    []BackendStatus     `json:"backend_statuses,omitempty"`
	LocalInventory     *LocalInventory     `json:"local_inventory,omitempty"`
	RemoteStatus       *RemoteStatus       `json:"remote_status,omitempty"`
	RemoteCatalog      *RemoteCatalog      `json:"remote_catalog,omitempty"`
	HealthSummary      *HealthSummary      `json:"health_summary,omitempty"`
	PerformanceReports []PerformanceReport `json:"performance_reports,omitempty"`
}

// RefreshResponse acknowledges a completed refresh.
type RefreshResponse struct {
	// Controller state after the refresh.
	// example: ready
	State string `json:"state" example:"ready"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
