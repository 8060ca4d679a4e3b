package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/therocksalt/rocksalt/internal/curate"
	"log/slog"
)

// CurationRunner is the curator surface the admin sync endpoint needs.
type CurationRunner interface {
	Curate(ctx context.Context) *curate.Result
}

// CurationHandler exposes the external-API sync endpoint for admins.
type CurationHandler struct {
	runner CurationRunner
	logger *slog.Logger
}

func NewCurationHandler(runner CurationRunner, logger *slog.Logger) *CurationHandler {
	return &CurationHandler{runner: runner, logger: logger}
}

// SyncEvents handles POST /api/admin/sync-events.
func (h *CurationHandler) SyncEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.logger.Info("curation sync triggered", "ip", r.RemoteAddr)

	result := h.runner.Curate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
