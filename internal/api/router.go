package api

import (
	"database/sql"
	"net/http"

	"github.com/therocksalt/rocksalt/internal/auth"
	"github.com/therocksalt/rocksalt/internal/database"
	"log/slog"
)

// VenueStore is the venue store surface the router wires up.
type VenueStore interface {
	VenueReader
	VenueWriter
}

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, db *sql.DB, runner AggregationRunner, sourceNames []string,
	curator CurationRunner, eventRepo EventReader, venueRepo VenueStore,
	authConfig auth.Config, logger *slog.Logger) {

	aggregationHandler := NewAggregationHandler(runner, sourceNames, logger)
	eventHandler := NewEventHandler(eventRepo, venueRepo, logger)
	curationHandler := NewCurationHandler(curator, logger)
	adminHandler := NewAdminHandler(venueRepo, logger)
	authHandler := NewAuthHandler(authConfig, logger)

	authMiddleware := auth.AuthMiddleware(authConfig)

	// Authentication routes (public)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		authMiddleware(http.HandlerFunc(authHandler.ValidateToken)).ServeHTTP(w, r)
	})

	// Scrape trigger (public, no body; GET returns readiness metadata)
	mux.HandleFunc("/api/scrape-events", aggregationHandler.HandleScrapeEvents)

	// Read routes (public)
	mux.HandleFunc("/api/events", eventHandler.GetEvents)
	mux.HandleFunc("/api/venues", eventHandler.GetVenues)

	// External-API curation sync (admin only)
	mux.HandleFunc("/api/admin/sync-events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusOK)
			return
		}
		authMiddleware(http.HandlerFunc(curationHandler.SyncEvents)).ServeHTTP(w, r)
	})

	// Venue administration (admin only)
	mux.HandleFunc("/api/admin/venues", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusOK)
			return
		}
		authMiddleware(http.HandlerFunc(adminHandler.CreateVenue)).ServeHTTP(w, r)
	})

	// Health check endpoint
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.HealthCheck(r.Context(), db); err != nil {
			logger.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Service info endpoint
	mux.HandleFunc("/api/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"rocksalt","status":"ready","version":"0.1.0"}`))
	})

	// CORS preflight
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})
}
