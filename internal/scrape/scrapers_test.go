package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/therocksalt/rocksalt/internal/normalize"
)

// fixedNow anchors yearless date resolution for the fallback parsers.
var fixedNow = time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
}

func TestSlugMagFallbackParse(t *testing.T) {
	page := `<html><body>
<div class="event">
  <span class="date">20 Nov</span>
  <h3>The Mountain Goats</h3>
  <p>11-20-2025 07:00 PM - 11-20-2025 11:30 PM</p>
  <p>The Commonwealth Room; 195 W 2100 S Expy, South Salt Lake, UT 84115</p>
  <span>Concert or Performance</span>
</div>
<div class="event">
  <span class="date">21 Nov</span>
  <h3>Pottery Wheel Basics</h3>
  <p>11-21-2025 06:00 PM</p>
  <p>Craft Lake City</p>
  <span>Class, Training, or Workshop</span>
</div>
</body></html>`

	empty := `<html><body>No events found.</body></html>`

	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if r.URL.Path == "/page/1/" {
			_, _ = w.Write([]byte(page))
			return
		}
		_, _ = w.Write([]byte(empty))
	}))
	defer srv.Close()

	s := NewSlugMag(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	s.BaseURL = srv.URL
	s.now = func() time.Time { return fixedNow }

	events, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if pages != 2 {
		t.Fatalf("expected pagination to stop after empty page, fetched %d pages", pages)
	}

	first := events[0]
	if first.Title != "The Mountain Goats" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.VenueName != "The Commonwealth Room" {
		t.Fatalf("unexpected venue %q", first.VenueName)
	}
	if first.VenueAddress != "195 W 2100 S Expy, South Salt Lake, UT 84115" {
		t.Fatalf("unexpected address %q", first.VenueAddress)
	}
	if first.Category != "Concert or Performance" {
		t.Fatalf("unexpected category %q", first.Category)
	}
	want := time.Date(2025, time.November, 20, 19, 0, 0, 0, normalize.Location())
	if !first.StartTime.Equal(want) {
		t.Fatalf("unexpected start %v, want %v", first.StartTime, want)
	}
	if first.Source != "slugmag" {
		t.Fatalf("unexpected source %q", first.Source)
	}
}

func TestSlugMagFetchErrorFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewSlugMag(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	s.BaseURL = srv.URL

	_, err := s.Scrape(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
}

func TestCityWeeklyFallbackParse(t *testing.T) {
	page := `<html><body>
<h2>Wednesday, November 19</h2>
<div class="listing">
  <a>Karaoke Night</a>
  <span>9:00pm</span>
  <span>@ Tavernacle Social Club</span>
</div>
<h2>Thursday, November 20</h2>
<div class="listing">
  <a>Holiday Craft Fair</a>
  <span>All day</span>
  <span>@ Gallivan Center</span>
</div>
</body></html>`

	srv := serveHTML(t, page)
	defer srv.Close()

	c := NewCityWeekly(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	c.URL = srv.URL
	c.now = func() time.Time { return fixedNow }

	events, err := c.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	karaoke := events[0]
	if karaoke.Title != "Karaoke Night" || karaoke.VenueName != "Tavernacle Social Club" {
		t.Fatalf("unexpected event %+v", karaoke)
	}
	want := time.Date(2025, time.November, 19, 21, 0, 0, 0, normalize.Location())
	if !karaoke.StartTime.Equal(want) {
		t.Fatalf("unexpected start %v, want %v", karaoke.StartTime, want)
	}

	allDay := events[1]
	if allDay.StartTimeText != "All day" {
		t.Fatalf("unexpected time text %q", allDay.StartTimeText)
	}
	if allDay.StartTime.Hour() != 0 || allDay.StartTime.Day() != 20 {
		t.Fatalf("all-day event should start at midnight, got %v", allDay.StartTime)
	}
}

func TestCityWeeklyTodayHeader(t *testing.T) {
	page := `<h2>Today</h2>
<div><a>Jazz Trio</a><span>7:30pm</span><span>@ The State Room</span></div>`

	srv := serveHTML(t, page)
	defer srv.Close()

	c := NewCityWeekly(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	c.URL = srv.URL
	c.now = func() time.Time { return fixedNow }

	events, err := c.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	want := time.Date(2025, time.November, 1, 19, 30, 0, 0, normalize.Location())
	if !events[0].StartTime.Equal(want) {
		t.Fatalf("unexpected start %v, want %v", events[0].StartTime, want)
	}
}

func TestCityWeeklyRollsPastDatesForward(t *testing.T) {
	page := `<h2>Monday, January 5</h2>
<div><a>Bluegrass Jam</a><span>8:00pm</span><span>@ Urban Lounge</span></div>`

	srv := serveHTML(t, page)
	defer srv.Close()

	c := NewCityWeekly(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	c.URL = srv.URL
	c.now = func() time.Time { return fixedNow }

	events, err := c.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].StartTime.Year() != 2026 {
		t.Fatalf("expected past date to roll into next year, got %v", events[0].StartTime)
	}
}

func TestSoundwellFallbackParse(t *testing.T) {
	page := `<html><body>
<div class="show">
  <span>December 5, 2025</span>
  <h2>The Expendables with Tunnel Vision, Shades</h2>
  <p>Doors At 7:00 pm</p>
</div>
<div class="show">
  <span>December 8, 2025</span>
  <h2>Private rental</h2>
</div>
</body></html>`

	srv := serveHTML(t, page)
	defer srv.Close()

	s := NewSoundwell(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	s.URL = srv.URL
	s.now = func() time.Time { return fixedNow }

	events, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event (block without a door time skipped), got %d", len(events))
	}

	ev := events[0]
	if ev.Title != "The Expendables" {
		t.Fatalf("unexpected title %q", ev.Title)
	}
	if len(ev.SupportingActs) != 2 || ev.SupportingActs[0] != "Tunnel Vision" || ev.SupportingActs[1] != "Shades" {
		t.Fatalf("unexpected supporting acts %v", ev.SupportingActs)
	}
	if ev.VenueName != "Soundwell" || ev.VenueAddress != "149 W 200 S, Salt Lake City, UT 84101" {
		t.Fatalf("unexpected venue %q / %q", ev.VenueName, ev.VenueAddress)
	}
	want := time.Date(2025, time.December, 5, 19, 0, 0, 0, normalize.Location())
	if !ev.StartTime.Equal(want) {
		t.Fatalf("unexpected start %v, want %v", ev.StartTime, want)
	}
}

func TestPiperDownFallbackParse(t *testing.T) {
	page := `<html><body>
<div class="gig">
  <span>Friday, November 22</span>
  <h3>The Wailers</h3>
  <p>Doors At 7:00 pm</p>
</div>
<div class="gig">
  <span>11/29</span>
  <h3>Shamrock Shenanigans with The Pour Boys</h3>
  <p>9pm</p>
</div>
</body></html>`

	srv := serveHTML(t, page)
	defer srv.Close()

	p := NewPiperDown(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	p.URL = srv.URL
	p.now = func() time.Time { return fixedNow }

	events, err := p.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	wailers := events[0]
	if wailers.Title != "The Wailers" {
		t.Fatalf("unexpected title %q", wailers.Title)
	}
	want := time.Date(2025, time.November, 22, 19, 0, 0, 0, normalize.Location())
	if !wailers.StartTime.Equal(want) {
		t.Fatalf("unexpected start %v, want %v", wailers.StartTime, want)
	}
	if wailers.VenueName != "Piper Down" {
		t.Fatalf("unexpected venue %q", wailers.VenueName)
	}

	second := events[1]
	if second.Title != "Shamrock Shenanigans" {
		t.Fatalf("unexpected title %q", second.Title)
	}
	if len(second.SupportingActs) != 1 || second.SupportingActs[0] != "The Pour Boys" {
		t.Fatalf("unexpected supporting acts %v", second.SupportingActs)
	}
	if second.StartTime.Hour() != 21 || second.StartTime.Day() != 29 {
		t.Fatalf("unexpected start %v", second.StartTime)
	}
}

func TestPiperDownJSONLDPreferred(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">
{"@type": "MusicEvent", "name": "Celtic Session", "startDate": "2025-11-30T20:00:00",
 "location": {"name": "Somewhere Else"}}
</script>
</head><body>
<span>Friday, November 22</span><h3>The Wailers</h3><p>7:00 pm</p>
</body></html>`

	srv := serveHTML(t, page)
	defer srv.Close()

	p := NewPiperDown(NewFetcher(srv.Client(), nil, testLogger()), testLogger())
	p.URL = srv.URL
	p.now = func() time.Time { return fixedNow }

	events, err := p.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("structured data should win over fallback parsing, got %d events", len(events))
	}
	if events[0].Title != "Celtic Session" {
		t.Fatalf("unexpected title %q", events[0].Title)
	}
	// Venue metadata is fixed for single-venue sources regardless of what
	// the structured data claims.
	if events[0].VenueName != "Piper Down" {
		t.Fatalf("unexpected venue %q", events[0].VenueName)
	}
}

func TestEmptyPageIsNotAnError(t *testing.T) {
	srv := serveHTML(t, "<html><body>Nothing this week.</body></html>")
	defer srv.Close()

	scrapers := []Scraper{
		NewCityWeekly(NewFetcher(srv.Client(), nil, testLogger()), testLogger()),
		NewSoundwell(NewFetcher(srv.Client(), nil, testLogger()), testLogger()),
		NewPiperDown(NewFetcher(srv.Client(), nil, testLogger()), testLogger()),
	}
	for _, s := range scrapers {
		switch sc := s.(type) {
		case *CityWeekly:
			sc.URL = srv.URL
		case *Soundwell:
			sc.URL = srv.URL
		case *PiperDown:
			sc.URL = srv.URL
		}
		events, err := s.Scrape(context.Background())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s.Name(), err)
		}
		if len(events) != 0 {
			t.Fatalf("%s: expected no events, got %d", s.Name(), len(events))
		}
	}
}
