package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// RequestIDHeader is set by the logging middleware and echoed in every envelope.
const RequestIDHeader = "X-Request-ID"

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, Envelope{Code: status, Message: message})
}

func write(w http.ResponseWriter, payload Envelope) {
	payload.RequestID = w.Header().Get(RequestIDHeader)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(payload.Code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: %s: encode payload failed: %v", payload.RequestID, err)
	}
}
