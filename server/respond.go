// server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	"github.com/cratequest/gameserver/logger"
)

// StatusResponse is the structured body for non-payload results.
type StatusResponse struct {
	Description string `json:"Description"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Errorf("Failed to write JSON response: %v", err)
	}
}

// writeError sends a sanitized error body. Raw store errors never reach
// the client.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, StatusResponse{Description: message})
}
