package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/therocksalt/rocksalt/internal/database"
	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
	"github.com/therocksalt/rocksalt/internal/venues"
	"log/slog"
)

// VenueWriter is the store surface venue administration needs.
type VenueWriter interface {
	Create(ctx context.Context, venue *models.Venue) error
}

// AdminHandler serves the JWT-protected venue administration endpoint.
type AdminHandler struct {
	venues VenueWriter
	logger *slog.Logger
}

func NewAdminHandler(venueStore VenueWriter, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{venues: venueStore, logger: logger}
}

// CreateVenueRequest is the body for POST /api/admin/venues.
type CreateVenueRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Website string `json:"website"`
}

// CreateVenue handles POST /api/admin/venues.
func (h *AdminHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := normalize.CleanText(req.Name)
	if name == "" {
		http.Error(w, "Missing required field: name", http.StatusBadRequest)
		return
	}

	venue := &models.Venue{
		Name:    name,
		Slug:    venues.Slugify(name),
		Address: normalize.CleanText(req.Address),
		City:    req.City,
		State:   req.State,
		Website: req.Website,
	}
	if venue.City == "" {
		venue.City = "Salt Lake City"
	}
	if venue.State == "" {
		venue.State = "UT"
	}

	if err := h.venues.Create(r.Context(), venue); err != nil {
		if database.IsUniqueViolation(err) {
			http.Error(w, "Venue with this slug already exists", http.StatusConflict)
			return
		}
		h.logger.Error("failed to create venue", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("venue created", "name", venue.Name, "slug", venue.Slug)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(venue); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
