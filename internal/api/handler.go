// Package api provides HTTP handlers for the EyeNav control surface.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/recorder"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/store"
)

// Handler provides the session control endpoints.
type Handler struct {
	manager *recorder.Manager
	repo    store.Repository
}

// NewHandler creates a new Handler. repo may be nil when the session index
// is disabled.
func NewHandler(manager *recorder.Manager, repo store.Repository) *Handler {
	return &Handler{manager: manager, repo: repo}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Status writes the short status payload every control endpoint returns.
// Internal failure detail never crosses this boundary.
func Status(w http.ResponseWriter, code int, status string) {
	JSON(w, code, map[string]string{"status": status})
}
