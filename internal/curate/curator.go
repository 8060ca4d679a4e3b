package curate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
	"github.com/therocksalt/rocksalt/internal/venues"
)

// BandsintownSource and SongkickSource are the API surfaces the curator
// needs; the real clients satisfy them.
type BandsintownSource interface {
	LocationEvents(ctx context.Context, city, state string, radius int) ([]BandsintownEvent, error)
}

type SongkickSource interface {
	MetroAreaEvents(ctx context.Context, metroAreaID int) ([]SongkickEvent, error)
}

// VenueStore is the venue persistence the curator needs.
type VenueStore interface {
	List(ctx context.Context) ([]models.Venue, error)
	Create(ctx context.Context, venue *models.Venue) error
}

// EventStore is the event persistence the curator needs.
type EventStore interface {
	GetByExternalID(ctx context.Context, source, externalID string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
}

// Result summarizes one curation pass.
type Result struct {
	Success bool     `json:"success"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// Curator pulls Utah events from the external APIs and upserts them keyed by
// their per-source external ID.
type Curator struct {
	bandsintown BandsintownSource
	songkick    SongkickSource
	venueStore  VenueStore
	eventStore  EventStore
	logger      *slog.Logger
}

func NewCurator(bandsintown BandsintownSource, songkick SongkickSource,
	venueStore VenueStore, eventStore EventStore, logger *slog.Logger) *Curator {
	return &Curator{
		bandsintown: bandsintown,
		songkick:    songkick,
		venueStore:  venueStore,
		eventStore:  eventStore,
		logger:      logger,
	}
}

// curatedEvent is the normalized form both APIs reduce to before persistence.
type curatedEvent struct {
	name           string
	description    string
	startTime      time.Time
	venueName      string
	venueCity      string
	venueState     string
	venueAddress   string
	ticketURL      string
	externalID     string
	source         string
	ageRestriction string
}

// Curate runs one pass against both APIs. Source failures and per-event
// failures are collected; Success is false only when nothing could run.
func (c *Curator) Curate(ctx context.Context) *Result {
	result := &Result{Success: true, Errors: []string{}}

	var curated []curatedEvent

	bitEvents, err := c.bandsintown.LocationEvents(ctx, "Salt Lake City", "UT", 50)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("bandsintown: %v", err))
	} else {
		curated = append(curated, c.fromBandsintown(bitEvents, result)...)
	}

	skEvents, err := c.songkick.MetroAreaEvents(ctx, SaltLakeCityMetroID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("songkick: %v", err))
	} else {
		curated = append(curated, c.fromSongkick(skEvents, result)...)
	}

	venueMap, err := c.loadVenues(ctx)
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("load venues: %v", err))
		return result
	}

	for _, event := range curated {
		if err := c.upsert(ctx, event, venueMap, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s event %s: %v", event.source, event.externalID, err))
		}
	}

	c.logger.Info("curation pass finished",
		"created", result.Created, "updated", result.Updated, "errors", len(result.Errors))
	return result
}

// fromBandsintown keeps only Utah events and normalizes them.
func (c *Curator) fromBandsintown(events []BandsintownEvent, result *Result) []curatedEvent {
	var curated []curatedEvent
	for _, ev := range events {
		if ev.Venue.Region != "UT" {
			continue
		}
		start, err := parseAPITime(ev.Datetime)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("bandsintown event %s: %v", ev.ID, err))
			continue
		}

		name := strings.Join(ev.Lineup, " + ")
		if name == "" {
			continue
		}

		ticketURL := ev.URL
		if len(ev.Offers) > 0 && ev.Offers[0].URL != "" {
			ticketURL = ev.Offers[0].URL
		}

		curated = append(curated, curatedEvent{
			name:         name,
			description:  ev.Description,
			startTime:    start,
			venueName:    ev.Venue.Name,
			venueCity:    ev.Venue.City,
			venueState:   ev.Venue.Region,
			venueAddress: ev.Venue.Location,
			ticketURL:    ticketURL,
			externalID:   ev.ID,
			source:       "bandsintown",
		})
	}
	return curated
}

// fromSongkick keeps only Utah events and normalizes them.
func (c *Curator) fromSongkick(events []SongkickEvent, result *Result) []curatedEvent {
	var curated []curatedEvent
	for _, ev := range events {
		if ev.Venue.MetroArea.State.DisplayName != "UT" {
			continue
		}

		raw := ev.Start.Datetime
		if raw == "" {
			raw = ev.Start.Date
		}
		start, err := parseAPITime(raw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("songkick event %d: %v", ev.ID, err))
			continue
		}

		curated = append(curated, curatedEvent{
			name:           ev.DisplayName,
			startTime:      start,
			venueName:      ev.Venue.DisplayName,
			venueCity:      ev.Location.City,
			venueState:     "UT",
			ticketURL:      ev.URI,
			externalID:     fmt.Sprintf("%d", ev.ID),
			source:         "songkick",
			ageRestriction: ev.AgeRestriction,
		})
	}
	return curated
}

func (c *Curator) loadVenues(ctx context.Context) (map[string]models.Venue, error) {
	stored, err := c.venueStore.List(ctx)
	if err != nil {
		return nil, err
	}
	venueMap := make(map[string]models.Venue, len(stored))
	for _, v := range stored {
		venueMap[strings.ToLower(v.Name)] = v
	}
	return venueMap, nil
}

func (c *Curator) upsert(ctx context.Context, event curatedEvent, venueMap map[string]models.Venue, result *Result) error {
	venue, ok := venueMap[strings.ToLower(event.venueName)]
	if !ok {
		created := models.Venue{
			Name:    normalize.CleanText(event.venueName),
			Slug:    venues.Slugify(event.venueName),
			Address: event.venueAddress,
			City:    event.venueCity,
			State:   event.venueState,
		}
		if err := c.venueStore.Create(ctx, &created); err != nil {
			return fmt.Errorf("create venue %q: %w", event.venueName, err)
		}
		venueMap[strings.ToLower(event.venueName)] = created
		venue = created
	}

	existing, err := c.eventStore.GetByExternalID(ctx, event.source, event.externalID)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if existing != nil {
		existing.Name = event.name
		existing.Description = event.description
		existing.StartTime = event.startTime
		existing.VenueID = venue.ID
		existing.TicketURL = event.ticketURL
		existing.AgeRestriction = event.ageRestriction
		if err := c.eventStore.Update(ctx, existing); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		result.Updated++
		return nil
	}

	if err := c.eventStore.Create(ctx, &models.Event{
		Name:           event.name,
		Description:    event.description,
		StartTime:      event.startTime,
		VenueID:        venue.ID,
		TicketURL:      event.ticketURL,
		ExternalID:     event.externalID,
		Source:         event.source,
		AgeRestriction: event.ageRestriction,
	}); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	result.Created++
	return nil
}

var apiTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseAPITime handles the timestamp shapes the external APIs produce.
// Layouts without an offset are read as venue-local.
func parseAPITime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range apiTimeLayouts {
		switch layout {
		case time.RFC3339, "2006-01-02T15:04:05-0700":
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		default:
			if t, err := time.ParseInLocation(layout, s, normalize.Location()); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
