package rest

import (
	"log/slog"
	"net/http"

	"github.com/rpshnkv/trainerbot/internal/transport/middleware"
)

// NewRouter assembles the operational HTTP surface.
func NewRouter(health *HealthHandler, sync *SyncHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("POST /sync", sync.Sync)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)

	return chain(mux)
}
