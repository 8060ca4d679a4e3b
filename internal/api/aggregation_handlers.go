package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/therocksalt/rocksalt/internal/aggregator"
	"log/slog"
)

// AggregationRunner is the orchestrator surface the trigger endpoint needs.
type AggregationRunner interface {
	Run(ctx context.Context) *aggregator.Result
}

// AggregationHandler exposes the scrape trigger endpoint.
type AggregationHandler struct {
	runner  AggregationRunner
	sources []string
	logger  *slog.Logger
}

func NewAggregationHandler(runner AggregationRunner, sources []string, logger *slog.Logger) *AggregationHandler {
	return &AggregationHandler{
		runner:  runner,
		sources: sources,
		logger:  logger,
	}
}

// ScrapeResponse is the structured body returned after a triggered run.
type ScrapeResponse struct {
	Success      bool                              `json:"success"`
	TotalScraped int                               `json:"total_scraped"`
	TotalSaved   int                               `json:"total_saved"`
	Sources      map[string]aggregator.SourceStats `json:"sources"`
	Errors       []string                          `json:"errors,omitempty"`
}

// ScrapeInfoResponse describes the endpoint without triggering a run.
type ScrapeInfoResponse struct {
	Status  string   `json:"status"`
	Sources []string `json:"sources"`
	Usage   string   `json:"usage"`
}

// HandleScrapeEvents handles POST /api/scrape-events (trigger a run) and
// GET /api/scrape-events (static readiness metadata, no run).
func (h *AggregationHandler) HandleScrapeEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.trigger(w, r)
	case http.MethodGet:
		h.info(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AggregationHandler) trigger(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("aggregation run triggered", "ip", r.RemoteAddr)

	result := h.runner.Run(r.Context())

	response := ScrapeResponse{
		Success:      true,
		TotalScraped: result.TotalScraped,
		TotalSaved:   result.TotalSaved,
		Sources:      result.Sources,
		Errors:       result.Errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *AggregationHandler) info(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ScrapeInfoResponse{
		Status:  "ready",
		Sources: h.sources,
		Usage:   "POST to this endpoint to trigger an aggregation run",
	}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
