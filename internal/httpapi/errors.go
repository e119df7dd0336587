package httpapi

import (
	"encoding/json"
	"net/http"

	"assistd/internal/llm"
	"assistd/internal/manager"
	"assistd/internal/registry"
	"assistd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps well-known service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case registry.IsNotFound(err):
		return http.StatusNotFound
	case manager.IsNotReady(err):
		return http.StatusServiceUnavailable
	case llm.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case manager.IsSwapFailure(err), manager.IsRuntimeFailure(err):
		return http.StatusInternalServerError
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
