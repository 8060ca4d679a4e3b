package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
)

// EventStore is the event persistence the upserter needs.
type EventStore interface {
	FindByNameVenueDay(ctx context.Context, name, venueID string, dayStart, dayEnd time.Time) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
}

// Upserter writes scraped events, deduplicating by event name, venue, and
// venue-local calendar day. Existing events are left untouched so that
// manual edits survive re-scrapes.
type Upserter struct {
	store  EventStore
	logger *slog.Logger
}

func NewUpserter(store EventStore, logger *slog.Logger) *Upserter {
	return &Upserter{store: store, logger: logger}
}

// Upsert persists one raw event against its resolved venue. It reports
// whether a new row was written; false with a nil error means a duplicate
// was skipped.
func (u *Upserter) Upsert(ctx context.Context, raw models.RawEvent, venue *models.Venue) (bool, error) {
	dayStart, dayEnd := localDayBounds(raw.StartTime)

	existing, err := u.store.FindByNameVenueDay(ctx, raw.Title, venue.ID, dayStart, dayEnd)
	if err != nil {
		return false, &PersistenceError{Op: "find duplicate", Err: err}
	}
	if existing != nil {
		u.logger.Debug("skipping duplicate event", "name", raw.Title, "venue", venue.Name, "day", dayStart.Format("2006-01-02"))
		return false, nil
	}

	event := &models.Event{
		Name:        raw.Title,
		VenueID:     venue.ID,
		StartTime:   raw.StartTime,
		Description: raw.Category,
		ExternalURL: raw.SourceURL,
		Source:      raw.Source,
	}
	if err := u.store.Create(ctx, event); err != nil {
		return false, &PersistenceError{Op: "create event", Err: err}
	}
	return true, nil
}

// localDayBounds returns the venue-local calendar day containing t as a
// half-open interval.
func localDayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(normalize.Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, normalize.Location())
	return start, start.AddDate(0, 0, 1)
}
