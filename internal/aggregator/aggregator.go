// Package aggregator orchestrates the scraping pipeline: concurrent
// per-source fan-out, music filtering, venue resolution, and deduplicated
// persistence.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/therocksalt/rocksalt/internal/metrics"
	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/musicfilter"
	"github.com/therocksalt/rocksalt/internal/scrape"
)

// SourceStats counts one source's contribution to a run.
type SourceStats struct {
	Scraped int `json:"scraped"`
	Saved   int `json:"saved"`
}

// Result is the outcome of one aggregation run. A run that hit per-source or
// per-event errors still carries the counts for everything that worked.
type Result struct {
	TotalScraped int
	TotalSaved   int
	Sources      map[string]SourceStats
	Errors       []string
	Duration     time.Duration
}

// Aggregator runs the full pipeline across all configured sources.
type Aggregator struct {
	scrapers  []scrape.Scraper
	resolver  *Resolver
	upserter  *Upserter
	collector *metrics.AggregationCollector
	logger    *slog.Logger
	budget    time.Duration
}

// New assembles an aggregator. collector may be nil; budget <= 0 disables
// the run deadline.
func New(scrapers []scrape.Scraper, venueStore VenueStore, eventStore EventStore,
	collector *metrics.AggregationCollector, logger *slog.Logger, budget time.Duration) *Aggregator {
	return &Aggregator{
		scrapers:  scrapers,
		resolver:  NewResolver(venueStore, logger),
		upserter:  NewUpserter(eventStore, logger),
		collector: collector,
		logger:    logger,
		budget:    budget,
	}
}

type sourceOutput struct {
	name   string
	events []models.RawEvent
	err    error
}

// Run executes one aggregation pass. Sources are scraped concurrently with
// failures isolated per source; persistence is sequential so that two events
// at the same new venue cannot race its creation. Run never returns an
// error: everything that went wrong is in Result.Errors.
func (a *Aggregator) Run(ctx context.Context) *Result {
	start := time.Now()

	if a.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.budget)
		defer cancel()
	}

	result := &Result{Sources: make(map[string]SourceStats)}
	for _, s := range a.scrapers {
		result.Sources[s.Name()] = SourceStats{}
	}

	outputs := make(chan sourceOutput, len(a.scrapers))
	for _, s := range a.scrapers {
		go func(s scrape.Scraper) {
			events, err := s.Scrape(ctx)
			outputs <- sourceOutput{name: s.Name(), events: events, err: err}
		}(s)
	}

	bySource := make(map[string][]models.RawEvent)
	for range a.scrapers {
		out := <-outputs
		if out.err != nil {
			a.logger.Error("source scrape failed", "source", out.name, "error", out.err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", out.name, out.err))
			continue
		}
		bySource[out.name] = a.usable(out.name, out.events)
	}

	// Persist in the configured source order so runs are deterministic.
	for _, s := range a.scrapers {
		name := s.Name()
		events := bySource[name]

		stats := SourceStats{Scraped: len(events)}
		for _, raw := range events {
			if ctx.Err() != nil {
				break
			}
			saved, err := a.persist(ctx, raw)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("save error for %q: %v", raw.Title, err))
				continue
			}
			if saved {
				stats.Saved++
			}
		}

		result.Sources[name] = stats
		result.TotalScraped += stats.Scraped
		result.TotalSaved += stats.Saved
		a.collector.RecordSource(name, stats.Scraped, stats.Saved)
	}

	if ctx.Err() != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("aggregation stopped early: %v", ctx.Err()))
	}

	result.Duration = time.Since(start)
	a.collector.RecordRun(result.Duration, len(result.Errors))
	a.logger.Info("aggregation run finished",
		"scraped", result.TotalScraped, "saved", result.TotalSaved,
		"errors", len(result.Errors), "duration", result.Duration)
	return result
}

// usable filters a source's output down to valid music events. Events
// dropped here never count as scraped.
func (a *Aggregator) usable(source string, events []models.RawEvent) []models.RawEvent {
	musical := musicfilter.Filter(events)

	kept := musical[:0]
	for _, e := range musical {
		if err := e.Validate(); err != nil {
			a.logger.Warn("dropping invalid event", "source", source, "title", e.Title, "error", err)
			continue
		}
		if e.VenueName == "" {
			a.logger.Warn("dropping event without venue", "source", source, "title", e.Title)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func (a *Aggregator) persist(ctx context.Context, raw models.RawEvent) (bool, error) {
	venue, err := a.resolver.Resolve(ctx, raw)
	if err != nil {
		return false, err
	}
	return a.upserter.Upsert(ctx, raw, venue)
}
