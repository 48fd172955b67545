package gateway

import "fmt"

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	// Gateway operation that failed (e.g., configuration, switch).
	Op string
	// HTTP status code from the backend.
	Code int
	// Backend-supplied error message, when the payload could be decoded.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway %s: status %d", e.Op, e.Code)
}

// IsStatus reports whether err is a backend status error.
func IsStatus(err error) bool {
	_, ok := err.(*StatusError)
	return ok
}
