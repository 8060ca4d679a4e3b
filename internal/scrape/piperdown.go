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
	piperDownURL     = "https://www.piperdownpub.com/live-music"
	piperDownVenue   = "Piper Down"
	piperDownAddress = "1492 S State St, Salt Lake City, UT 84115"
)

// PiperDown scrapes the Piper Down pub live-music page. Single venue, so
// venue metadata is fixed. Listings use either a long date ("Friday,
// November 22") or a short numeric one ("11/22"), followed by the act and a
// time.
type PiperDown struct {
	URL string

	fetcher *Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewPiperDown(fetcher *Fetcher, logger *slog.Logger) *PiperDown {
	return &PiperDown{
		URL:     piperDownURL,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *PiperDown) Name() string { return "piperdown" }

func (p *PiperDown) Scrape(ctx context.Context) ([]models.RawEvent, error) {
	body, err := p.fetcher.Get(ctx, p.Name(), p.URL)
	if err != nil {
		return nil, err
	}

	events := p.parse(body)
	p.logger.Info("scraped events", "source", p.Name(), "count", len(events))
	return events, nil
}

var (
	pdDateRe = regexp.MustCompile(`(?i)(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,?\s*\d{4})?|\d{1,2}/\d{1,2}(?:/\d{2,4})?`)
	pdTimeRe = regexp.MustCompile(`(?i)\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
	pdYearRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}|\d{4}`)

	// Door-time lead-ins left dangling once the time itself is cut off.
	pdDoorsSuffixRe = regexp.MustCompile(`(?i)[,\s]*doors(\s+open)?(\s+at)?$`)
)

func (p *PiperDown) parse(body string) []models.RawEvent {
	if structured := ExtractStructuredEvents(body); len(structured) > 0 {
		events := make([]models.RawEvent, 0, len(structured))
		for _, ev := range structured {
			if ev.Name == "" {
				continue
			}
			events = append(events, models.RawEvent{
				Title:        ev.Name,
				Description:  ev.Description,
				VenueName:    piperDownVenue,
				VenueAddress: piperDownAddress,
				StartTime:    ev.Start,
				SourceURL:    ev.URL,
				Category:     "Live Music",
				Source:       p.Name(),
			})
		}
		return events
	}

	text := htmlToText(body)
	dates := pdDateRe.FindAllStringIndex(text, -1)

	var events []models.RawEvent
	for i, dateIdx := range dates {
		blockEnd := len(text)
		if i+1 < len(dates) {
			blockEnd = dates[i+1][0]
		}
		block := text[dateIdx[1]:blockEnd]

		timeIdx := pdTimeRe.FindStringIndex(block)
		if timeIdx == nil {
			continue
		}

		title := trimSeparators(normalize.CleanText(block[:timeIdx[0]]))
		title = trimSeparators(pdDoorsSuffixRe.ReplaceAllString(title, ""))
		title, acts := splitSupportingActs(title)
		title = trimSeparators(title)
		if title == "" || !hasLetter(title) {
			continue
		}

		dateStr := text[dateIdx[0]:dateIdx[1]]
		date, err := normalize.ParseLooseDate(dateStr, p.now().Year())
		if err != nil {
			continue
		}
		if !pdYearRe.MatchString(dateStr) {
			now := p.now().In(normalize.Location())
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, normalize.Location())
			if date.Before(today) {
				date = date.AddDate(1, 0, 0)
			}
		}

		timeStr := block[timeIdx[0]:timeIdx[1]]
		hour, minute, err := normalize.ParseLooseTime(timeStr)
		if err != nil {
			continue
		}

		events = append(events, models.RawEvent{
			Title:          title,
			VenueName:      piperDownVenue,
			VenueAddress:   piperDownAddress,
			StartTime:      normalize.Combine(date, hour, minute),
			StartTimeText:  normalize.CleanText(timeStr),
			Category:       "Live Music",
			SupportingActs: acts,
			Source:         p.Name(),
		})
	}

	return events
}
