// Package api provides HTTP API handlers for the Tactus gesture recognizer.
package api

import (
	"encoding/json"
	"net/http"
)

// maxBodySize bounds request bodies; a frame sequence of several thousand frames fits comfortably.
const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
