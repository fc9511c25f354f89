// Package rest serves the operational HTTP endpoints of the bot: health
// probes and the manual catalog sync trigger. The user-facing surface is
// the Telegram transport, not REST.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rpshnkv/trainerbot/internal/service/catalog"
)

const pingTimeout = 3 * time.Second

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// syncStatus reports the most recent catalog reconciliation run.
type syncStatus interface {
	LastSync() *catalog.SyncStatus
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      dbPinger
	sync    syncStatus
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, sync syncStatus, version string) *HealthHandler {
	return &HealthHandler{db: db, sync: sync, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status, code = "down", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health is the full health check: DB ping with latency, version, and the
// state of the last catalog sync. The catalog component is informational
// and never flips the overall status; a stale catalog still serves sessions.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	err := h.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["database"] = CompStatus{Status: "down"}
		overallStatus = "down"
	} else {
		components["database"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	components["catalog"] = catalogComponent(h.sync.LastSync())

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func catalogComponent(last *catalog.SyncStatus) CompStatus {
	switch {
	case last == nil:
		return CompStatus{Status: "pending", Detail: "no sync completed yet"}
	case last.Failed:
		return CompStatus{Status: "degraded", Detail: "last sync at " + last.At.Format(time.RFC3339) + " had failures"}
	default:
		return CompStatus{Status: "ok", Detail: "last sync at " + last.At.Format(time.RFC3339)}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
