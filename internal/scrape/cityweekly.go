package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
)

const cityWeeklyURL = "https://events.cityweekly.net/"

// CityWeekly scrapes the City Weekly community calendar. Listings are
// grouped under date headers ("Today", "Tomorrow", or a weekday plus month
// and day) and span many venues.
type CityWeekly struct {
	URL string

	fetcher *Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewCityWeekly(fetcher *Fetcher, logger *slog.Logger) *CityWeekly {
	return &CityWeekly{
		URL:     cityWeeklyURL,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *CityWeekly) Name() string { return "cityweekly" }

func (c *CityWeekly) Scrape(ctx context.Context) ([]models.RawEvent, error) {
	body, err := c.fetcher.Get(ctx, c.Name(), c.URL)
	if err != nil {
		return nil, err
	}

	events := c.parse(body)
	c.logger.Info("scraped events", "source", c.Name(), "count", len(events))
	return events, nil
}

var (
	cwDateHeaderRe = regexp.MustCompile(`(?im)^[ \t]*(Today|Tomorrow|(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?[ \t]+(?:January|February|March|April|May|June|July|August|September|October|November|December)[ \t]+\d{1,2})[ \t]*$`)

	// Within a date section each event is a title line, a time line, and a
	// venue line prefixed with "@".
	cwEventRe = regexp.MustCompile(`(?im)^[ \t]*(\S[^\n@]*?)[ \t]*\n\s*(\d{1,2}:\d{2}[ \t]*(?:am|pm)|All day)[ \t]*\n\s*@[ \t]*([^\n]+?)[ \t]*$`)
)

func (c *CityWeekly) parse(body string) []models.RawEvent {
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
				Source:       c.Name(),
			})
		}
		return events
	}

	text := htmlToText(body)
	headers := cwDateHeaderRe.FindAllStringSubmatchIndex(text, -1)

	var events []models.RawEvent
	for i, header := range headers {
		label := text[header[2]:header[3]]
		sectionEnd := len(text)
		if i+1 < len(headers) {
			sectionEnd = headers[i+1][0]
		}
		section := text[header[1]:sectionEnd]

		date, ok := c.resolveDate(label)
		if !ok {
			continue
		}

		for _, m := range cwEventRe.FindAllStringSubmatch(section, -1) {
			title := trimSeparators(normalize.CleanText(m[1]))
			if title == "" || !hasLetter(title) {
				continue
			}

			timeText := normalize.CleanText(m[2])
			hour, minute := 0, 0
			if !strings.EqualFold(timeText, "All day") {
				var err error
				hour, minute, err = normalize.ParseLooseTime(timeText)
				if err != nil {
					continue
				}
			}

			events = append(events, models.RawEvent{
				Title:         title,
				VenueName:     normalize.CleanText(strings.TrimPrefix(m[3], "@")),
				StartTime:     normalize.Combine(date, hour, minute),
				StartTimeText: timeText,
				Source:        c.Name(),
			})
		}
	}

	return events
}

// resolveDate maps a section header to a calendar date. Yearless headers
// take the current year, rolling into the next year when the date has
// already passed.
func (c *CityWeekly) resolveDate(label string) (time.Time, bool) {
	now := c.now().In(normalize.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, normalize.Location())

	switch strings.ToLower(label) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}

	date, err := normalize.ParseLooseDate(label, now.Year())
	if err != nil {
		return time.Time{}, false
	}
	if date.Before(today) {
		date = date.AddDate(1, 0, 0)
	}
	return date, true
}
