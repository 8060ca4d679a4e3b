package scrape

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/therocksalt/rocksalt/internal/normalize"
)

// StructuredEvent is one Event or MusicEvent item lifted from a page's
// JSON-LD blocks. Timestamps are taken as published; sites embed their own
// zone offsets.
type StructuredEvent struct {
	Name         string
	VenueName    string
	VenueAddress string
	URL          string
	Category     string
	Description  string
	Start        time.Time
	End          time.Time
}

var jsonLDScriptRe = regexp.MustCompile(`(?is)<script[^>]*type=["']application/ld\+json["'][^>]*>(.*?)</script>`)

// ExtractStructuredEvents pulls Event and MusicEvent items out of every
// JSON-LD script block in html. Blocks that fail to parse, items of other
// types, and items without a start date are silently skipped.
func ExtractStructuredEvents(html string) []StructuredEvent {
	var events []StructuredEvent

	for _, m := range jsonLDScriptRe.FindAllStringSubmatch(html, -1) {
		var data any
		if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
			continue
		}

		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}

		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			eventType, _ := item["@type"].(string)
			if eventType != "Event" && eventType != "MusicEvent" {
				continue
			}
			start, ok := parseJSONLDDate(stringField(item, "startDate"))
			if !ok {
				continue
			}
			end, _ := parseJSONLDDate(stringField(item, "endDate"))

			ev := StructuredEvent{
				Name:        normalize.CleanText(stringField(item, "name")),
				URL:         stringField(item, "url"),
				Description: normalize.CleanText(stringField(item, "description")),
				Start:       start,
				End:         end,
			}

			if location, ok := item["location"].(map[string]any); ok {
				ev.VenueName = normalize.CleanText(stringField(location, "name"))
				if address, ok := location["address"].(map[string]any); ok {
					ev.VenueAddress = normalize.CleanText(stringField(address, "streetAddress"))
					if ev.VenueName == "" {
						ev.VenueName = normalize.CleanText(stringField(address, "addressLocality"))
					}
				}
			}

			ev.Category = stringField(item, "eventAttendanceMode")
			if ev.Category == "" {
				ev.Category = stringField(item, "genre")
			}

			events = append(events, ev)
		}
	}

	return events
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

var jsonLDDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseJSONLDDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range jsonLDDateLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, normalize.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
