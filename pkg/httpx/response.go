package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageBody is the shape of acknowledgement responses.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v as JSON with the given status code. Encoding errors are
// discarded: the header is already on the wire.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// JSONMessage writes {"message": message}.
func JSONMessage(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}
