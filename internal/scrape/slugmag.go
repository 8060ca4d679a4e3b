package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
)

const slugMagBaseURL = "https://www.slugmag.com/events"

// SlugMag scrapes the SLUG Magazine events calendar. The calendar is paged
// and lists events across many venues, so venue names come from the listing
// content rather than fixed metadata.
type SlugMag struct {
	BaseURL  string
	MaxPages int

	fetcher *Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewSlugMag(fetcher *Fetcher, logger *slog.Logger) *SlugMag {
	return &SlugMag{
		BaseURL:  slugMagBaseURL,
		MaxPages: 5,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SlugMag) Name() string { return "slugmag" }

// Scrape walks calendar pages until one comes back empty or MaxPages is
// reached. A fetch failure on the first page is fatal for the source; on
// later pages the events already collected are returned.
func (s *SlugMag) Scrape(ctx context.Context) ([]models.RawEvent, error) {
	var all []models.RawEvent

	for page := 1; page <= s.MaxPages; page++ {
		url := fmt.Sprintf("%s/page/%d/", s.BaseURL, page)
		body, err := s.fetcher.Get(ctx, s.Name(), url)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			s.logger.Warn("page fetch failed, stopping pagination", "source", s.Name(), "page", page, "error", err)
			break
		}

		events := s.parse(body)
		if len(events) == 0 {
			break
		}
		all = append(all, events...)
	}

	s.logger.Info("scraped events", "source", s.Name(), "count", len(all))
	return all, nil
}

// Listing text shape, one field per line:
//
//	20 Nov
//	Event Title
//	11-20-2025 07:00 PM - 11-20-2025 11:30 PM
//	The Commonwealth Room; 195 W 2100 S Expy, South Salt Lake, UT 84115
//	Concert or Performance
var slugMagEventRe = regexp.MustCompile(`(?im)^[ \t]*\d{1,2}[ \t]+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[^\n]*\n\s*(\S[^\n]*?)[ \t]*\n\s*(\d{1,2}-\d{1,2}-\d{4})[ \t]+(\d{1,2}:\d{2}[ \t]*(?:AM|PM))[^\n]*\n\s*([^;\n]+?)(?:;[ \t]*([^\n]+?))?[ \t]*\n\s*(Concert or Performance|Game or Competition|Class, Training, or Workshop|Attraction|Other)[ \t]*$`)

func (s *SlugMag) parse(body string) []models.RawEvent {
	if structured := ExtractStructuredEvents(body); len(structured) > 0 {
		events := make([]models.RawEvent, 0, len(structured))
		for _, ev := range structured {
			if ev.Name == "" {
				continue
			}
			events = append(events, models.RawEvent{
				Title:        ev.Name,
				Description:  ev.Description,
				VenueName:    ev.VenueName,
				VenueAddress: ev.VenueAddress,
				StartTime:    ev.Start,
				SourceURL:    ev.URL,
				Category:     ev.Category,
				Source:       s.Name(),
			})
		}
		return events
	}

	text := htmlToText(body)
	var events []models.RawEvent

	for _, m := range slugMagEventRe.FindAllStringSubmatch(text, -1) {
		title := trimSeparators(normalize.CleanText(m[1]))
		if title == "" || !hasLetter(title) {
			continue
		}

		date, err := normalize.ParseLooseDate(m[2], s.now().Year())
		if err != nil {
			continue
		}
		hour, minute, err := normalize.ParseLooseTime(m[3])
		if err != nil {
			continue
		}

		events = append(events, models.RawEvent{
			Title:         title,
			VenueName:     normalize.CleanText(m[4]),
			VenueAddress:  normalize.CleanText(m[5]),
			StartTime:     normalize.Combine(date, hour, minute),
			StartTimeText: normalize.CleanText(m[3]),
			Category:      normalize.CleanText(m[6]),
			Source:        s.Name(),
		})
	}

	return events
}
