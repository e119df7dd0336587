package types

import "encoding/json"

// AssistRequest is the unified assistant request payload accepted by POST /assistant
// and the POST /run/{adapter} endpoints.
type AssistRequest struct {
	// Free-form user message.
	// example: how can I prepare for a systems design interview?
	Message string `json:"message,omitempty" example:"how can I prepare for a systems design interview?"`
	// Optional structured resume document, passed through verbatim.
	Resume json.RawMessage `json:"resume_json,omitempty" swaggertype:"object"`
	// Optional structured job offer documents.
	JobOffers []json.RawMessage `json:"job_offers_json,omitempty" swaggertype:"array,object"`
	// Optional free-form context map.
	Context map[string]any `json:"context,omitempty"`
}

// AssistResponse is returned by POST /assistant.
type AssistResponse struct {
	// Mode the router resolved for the request.
	// example: career
	Mode Mode `json:"mode" example:"career"`
	// Decoded model output.
	Response string `json:"response"`
}

// RunResponse is returned by the adapter-specific POST /run/{adapter} endpoints.
type RunResponse struct {
	// Adapter that served the request.
	// example: job_match
	Adapter string `json:"adapter" example:"job_match"`
	// Decoded model output.
	Response string `json:"response"`
	// Always "success" on 200 responses.
	// example: success
	Status string `json:"status" example:"success"`
}

// AdaptersResponse wraps the adapter listing returned by GET /adapters.
type AdaptersResponse struct {
	// Names of adapters whose weight artifact is present, sorted.
	AvailableAdapters []string `json:"available_adapters"`
	// Number of available adapters.
	// example: 4
	Count int `json:"count" example:"4"`
	// Name of the adapter currently applied to the base model, if any.
	// example: job_match
	CurrentAdapter string `json:"current_adapter,omitempty" example:"job_match"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// True once the base model and tokenizer are loaded.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// True once the adapter registry is initialized.
	// example: true
	AdaptersReady bool `json:"adapters_ready" example:"true"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall service state (loading, ready).
	// example: ready
	State string `json:"state" example:"ready"`
	// Adapter currently applied to the base model, empty when running bare.
	// example: resume_eval
	CurrentAdapter string `json:"current_adapter,omitempty" example:"resume_eval"`
	// Adapters available in the registry.
	Adapters []string `json:"adapters"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total successful adapter swaps since startup.
	// example: 12
	SwapsTotal uint64 `json:"swaps_total" example:"12"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: adapter 'nonexistent' not found
	Error string `json:"error" example:"adapter 'nonexistent' not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
