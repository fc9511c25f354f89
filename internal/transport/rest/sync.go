package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

type catalogService interface {
	SyncAll(ctx context.Context) ([]domain.SyncReport, error)
}

// SyncHandler triggers catalog reconciliation on demand, outside the
// periodic schedule. Useful right after dropping new CSV files on disk.
type SyncHandler struct {
	catalog catalogService
	log     *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(catalog catalogService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		catalog: catalog,
		log:     logger.With("handler", "sync"),
	}
}

// SyncResponse is the JSON response for POST /sync.
type SyncResponse struct {
	Reports []domain.SyncReport `json:"reports"`
	Error   string              `json:"error,omitempty"`
}

// Sync runs reconciliation for every configured suite and returns the
// per-suite reports. A partial failure still returns the reports of the
// suites that completed, with status 207.
// POST /sync
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	reports, err := h.catalog.SyncAll(r.Context())
	if reports == nil {
		reports = []domain.SyncReport{}
	}

	if err != nil {
		h.log.ErrorContext(r.Context(), "manual catalog sync failed",
			slog.Int("suites_ok", len(reports)),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusMultiStatus, SyncResponse{
			Reports: reports,
			Error:   err.Error(),
		})
		return
	}

	h.log.InfoContext(r.Context(), "manual catalog sync completed",
		slog.Int("suites_ok", len(reports)),
	)
	writeJSON(w, http.StatusOK, SyncResponse{Reports: reports})
}
