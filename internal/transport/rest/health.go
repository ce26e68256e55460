package rest

import (
	"net/http"
	"time"
)

// HealthHandler serves health check endpoints. The service keeps no state
// and owns no connections, so liveness is the only meaningful probe; the
// upstream provider is deliberately not pinged to avoid extra load on it.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// HealthResponse is the JSON response for /health and /health/live.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check, including build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now(),
	})
}
