package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/therocksalt/rocksalt/internal/aggregator"
	"github.com/therocksalt/rocksalt/internal/api"
	"github.com/therocksalt/rocksalt/internal/auth"
	"github.com/therocksalt/rocksalt/internal/config"
	"github.com/therocksalt/rocksalt/internal/curate"
	"github.com/therocksalt/rocksalt/internal/database"
	"github.com/therocksalt/rocksalt/internal/logging"
	"github.com/therocksalt/rocksalt/internal/metrics"
	"github.com/therocksalt/rocksalt/internal/scheduler"
	"github.com/therocksalt/rocksalt/internal/scrape"
	"github.com/therocksalt/rocksalt/internal/server"
	"log/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting rocksalt")

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.Database.URL

	logger.Info("connecting to database")
	db, err := database.Connect(context.Background(), dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	// Run pending migrations (non-fatal to allow app to start even if migrations fail)
	if err := database.RunMigrations(db, cfg.Database.MigrationsDir, logger); err != nil {
		logger.Warn("failed to run migrations, continuing anyway", "error", err)
	}

	venueRepo := database.NewVenueRepository(db)
	eventRepo := database.NewEventRepository(db)

	// Scraping pipeline
	cache := scrape.NewTTLCache(cfg.Aggregation.CacheTTL)
	fetcher := scrape.NewFetcher(&http.Client{Timeout: cfg.Aggregation.FetchTimeout}, cache, logger)
	scrapers := []scrape.Scraper{
		scrape.NewSlugMag(fetcher, logger),
		scrape.NewCityWeekly(fetcher, logger),
		scrape.NewSoundwell(fetcher, logger),
		scrape.NewPiperDown(fetcher, logger),
	}
	sourceNames := make([]string, 0, len(scrapers))
	for _, s := range scrapers {
		sourceNames = append(sourceNames, s.Name())
	}

	httpCollector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	aggCollector, err := metrics.NewAggregationCollector(httpCollector.Registry())
	if err != nil {
		logger.Error("failed to init aggregation metrics", "error", err)
		os.Exit(1)
	}

	agg := aggregator.New(scrapers, venueRepo, eventRepo, aggCollector, logger, cfg.Aggregation.RunBudget)

	// External API curation
	bandsintown := curate.NewBandsintownClient(nil, cfg.Curation.BandsintownAppID, logger)
	songkick := curate.NewSongkickClient(nil, cfg.Curation.SongkickAPIKey, logger)
	curator := curate.NewCurator(bandsintown, songkick, venueRepo, eventRepo, logger)

	authConfig := auth.LoadConfigFromEnv()
	logger.Info("auth configured", "jwt_secret_set", authConfig.JWTSecret != "change-this-secret")

	mux := http.NewServeMux()
	mux.Handle("/metrics", httpCollector.Handler())
	api.SetupRoutes(mux, db, agg, sourceNames, curator, eventRepo, venueRepo, authConfig, logger)

	// Optional scheduled aggregation
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	if cfg.Aggregation.Interval > 0 {
		aggScheduler := scheduler.NewAggregationScheduler(agg, cfg.Aggregation.Interval, logger)
		go aggScheduler.Start(schedulerCtx)
	} else {
		logger.Info("scheduled aggregation disabled")
	}

	srv := server.New(cfg.Server, logger, httpCollector.InstrumentHandler(mux))

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("rocksalt started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	cancelScheduler()
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
