package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/therocksalt/rocksalt/internal/aggregator"
)

// AggregationScheduler runs the scraping pipeline on a fixed interval so the
// listings stay fresh without an operator hitting the trigger endpoint.
type AggregationScheduler struct {
	aggregator *aggregator.Aggregator
	logger     *slog.Logger
	stopChan   chan struct{}
	interval   time.Duration
}

// NewAggregationScheduler creates a scheduler that runs every interval.
func NewAggregationScheduler(agg *aggregator.Aggregator, interval time.Duration, logger *slog.Logger) *AggregationScheduler {
	return &AggregationScheduler{
		aggregator: agg,
		logger:     logger,
		stopChan:   make(chan struct{}),
		interval:   interval,
	}
}

// Start begins the scheduler loop. It blocks until Stop is called or the
// context is cancelled, so callers run it in a goroutine.
func (s *AggregationScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting aggregation scheduler", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run once immediately on start
	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Aggregation scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Aggregation scheduler stopping due to context cancellation")
			return
		}
	}
}

// Stop stops the scheduler.
func (s *AggregationScheduler) Stop() {
	close(s.stopChan)
}

func (s *AggregationScheduler) runOnce(ctx context.Context) {
	result := s.aggregator.Run(ctx)
	if len(result.Errors) > 0 {
		s.logger.Warn("Scheduled aggregation finished with errors",
			"scraped", result.TotalScraped,
			"saved", result.TotalSaved,
			"errors", result.Errors,
		)
		return
	}
	s.logger.Info("Scheduled aggregation finished",
		"scraped", result.TotalScraped,
		"saved", result.TotalSaved,
	)
}
