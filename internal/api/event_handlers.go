package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
	"log/slog"
)

// EventReader is the store surface the read API needs.
type EventReader interface {
	List(ctx context.Context, q models.EventQuery) ([]models.Event, error)
}

// VenueReader is the venue store surface the read API needs.
type VenueReader interface {
	List(ctx context.Context) ([]models.Venue, error)
}

// EventHandler serves the public read endpoints.
type EventHandler struct {
	events EventReader
	venues VenueReader
	logger *slog.Logger
}

func NewEventHandler(events EventReader, venues VenueReader, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, venues: venues, logger: logger}
}

type EventsResponse struct {
	Events []models.Event `json:"events"`
	Count  int            `json:"count"`
}

type VenuesResponse struct {
	Venues []models.Venue `json:"venues"`
	Count  int            `json:"count"`
}

// GetEvents handles GET /api/events. Supported filters: venue (slug),
// from/to (RFC 3339), limit.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query, err := parseEventQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := h.events.List(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(EventsResponse{Events: events, Count: len(events)}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// GetVenues handles GET /api/venues.
func (h *EventHandler) GetVenues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	venues, err := h.venues.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list venues", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if venues == nil {
		venues = []models.Venue{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(VenuesResponse{Venues: venues, Count: len(venues)}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func parseEventQuery(r *http.Request) (models.EventQuery, error) {
	q := r.URL.Query()
	query := models.EventQuery{VenueSlug: q.Get("venue")}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return query, errBadTimeParam("from")
		}
		query.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return query, errBadTimeParam("to")
		}
		query.To = t
	}
	if limit := q.Get("limit"); limit != "" {
		val, err := strconv.Atoi(limit)
		if err != nil || val <= 0 {
			return query, errBadParam("limit must be a positive integer")
		}
		query.Limit = val
	}
	return query, nil
}

type errBadParam string

func (e errBadParam) Error() string { return string(e) }

func errBadTimeParam(name string) error {
	return errBadParam(name + " must be an RFC 3339 timestamp")
}
