package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
)

const (
	soundwellURL     = "https://www.soundwellslc.com/events/"
	soundwellVenue   = "Soundwell"
	soundwellAddress = "149 W 200 S, Salt Lake City, UT 84101"
)

// Soundwell scrapes the Soundwell SLC events page. Everything listed there
// happens at the venue itself, so venue metadata is fixed.
type Soundwell struct {
	URL string

	fetcher *Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewSoundwell(fetcher *Fetcher, logger *slog.Logger) *Soundwell {
	return &Soundwell{
		URL:     soundwellURL,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Soundwell) Name() string { return "soundwell" }

func (s *Soundwell) Scrape(ctx context.Context) ([]models.RawEvent, error) {
	body, err := s.fetcher.Get(ctx, s.Name(), s.URL)
	if err != nil {
		return nil, err
	}

	events := s.parse(body)
	s.logger.Info("scraped events", "source", s.Name(), "count", len(events))
	return events, nil
}

var (
	swDateRe  = regexp.MustCompile(`(?i)(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s*\d{4}`)
	swDoorsRe = regexp.MustCompile(`(?i)Doors\s+at\s+(\d{1,2}:\d{2}\s*(?:am|pm))`)
)

func (s *Soundwell) parse(body string) []models.RawEvent {
	if structured := ExtractStructuredEvents(body); len(structured) > 0 {
		events := make([]models.RawEvent, 0, len(structured))
		for _, ev := range structured {
			if ev.Name == "" {
				continue
			}
			events = append(events, models.RawEvent{
				Title:        ev.Name,
				Description:  ev.Description,
				VenueName:    soundwellVenue,
				VenueAddress: soundwellAddress,
				StartTime:    ev.Start,
				SourceURL:    ev.URL,
				Category:     "Concert",
				Source:       s.Name(),
			})
		}
		return events
	}

	// Event blocks read as a date, the headliner (optionally "with"
	// supporting acts), and a door time.
	text := htmlToText(body)
	dates := swDateRe.FindAllStringIndex(text, -1)

	var events []models.RawEvent
	for i, dateIdx := range dates {
		blockEnd := len(text)
		if i+1 < len(dates) {
			blockEnd = dates[i+1][0]
		}
		block := text[dateIdx[1]:blockEnd]

		doors := swDoorsRe.FindStringSubmatchIndex(block)
		if doors == nil {
			continue
		}

		title := trimSeparators(normalize.CleanText(block[:doors[0]]))
		title, acts := splitSupportingActs(title)
		title = trimSeparators(title)
		if title == "" || !hasLetter(title) {
			continue
		}

		date, err := normalize.ParseLooseDate(text[dateIdx[0]:dateIdx[1]], s.now().Year())
		if err != nil {
			continue
		}
		doorTime := block[doors[2]:doors[3]]
		hour, minute, err := normalize.ParseLooseTime(doorTime)
		if err != nil {
			continue
		}

		events = append(events, models.RawEvent{
			Title:          title,
			VenueName:      soundwellVenue,
			VenueAddress:   soundwellAddress,
			StartTime:      normalize.Combine(date, hour, minute),
			StartTimeText:  normalize.CleanText(doorTime),
			Category:       "Concert",
			SupportingActs: acts,
			Source:         s.Name(),
		})
	}

	return events
}
