package api

import "fmt"

// APIError is the client-side view of a vault error envelope. Code is
// the stable string kind ("unauthorized", "invalid_transition", ...),
// ErrorCode the numeric code from the envelope's error_code field, and
// Message the human-readable detail. CLI error guidance switches on
// Code to pick hints.
type APIError struct {
	Status    int
	Code      string
	ErrorCode int
	Message   string
}

// Error renders the most specific description available.
func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" && e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Status > 0 {
		return fmt.Sprintf("api error: %d", e.Status)
	}
	return "api error"
}
