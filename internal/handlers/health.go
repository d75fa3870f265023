package handlers

import (
	"net/http"
	"time"
)

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	started time.Time
	ready   func() error
}

// NewHealthHandlers constructs the probe handlers. ready, when non-nil, is
// consulted by the readiness probe; liveness never depends on collaborators.
func NewHealthHandlers(ready func() error) *HealthHandlers {
	return &HealthHandlers{started: time.Now(), ready: ready}
}

func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(h.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			writeJSONResponse(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"reason": err.Error(),
			})
			return
		}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}
