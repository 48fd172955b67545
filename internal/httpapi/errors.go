package httpapi

import (
	"encoding/json"
	"net/http"

	"inferdash/internal/dashboard"
	"inferdash/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeServiceError maps controller errors to HTTP status codes: a closed
// controller is a conflict, everything else reached the gateway and failed
// there, so it surfaces as a bad gateway.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	// Client disconnect or shutdown: nothing useful to write.
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	switch {
	case dashboard.IsClosed(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusBadGateway, err.Error())
	}
}
