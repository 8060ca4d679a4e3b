// Package venues holds the fixed registry of Salt Lake City area music
// venues the aggregator targets. The registry seeds the content store and
// gives the resolver canonical names and addresses for venues it recognizes.
package venues

import (
	"regexp"
	"strings"
)

// KnownVenue is a registry entry. SongkickID and BandsintownID link the venue
// to the external curation APIs when known.
type KnownVenue struct {
	Name          string
	Slug          string
	Address       string
	City          string
	State         string
	Website       string
	SongkickID    int
	BandsintownID string
}

// Registry lists the venues the platform curates. Order is stable so that
// tie-breaks during matching are deterministic.
var Registry = []KnownVenue{
	{Name: "Urban Lounge", Slug: "urban-lounge", Address: "241 S 500 E", City: "Salt Lake City", State: "UT", Website: "https://www.theurbanloungeslc.com", SongkickID: 15245, BandsintownID: "10001067"},
	{Name: "Kilby Court", Slug: "kilby-court", Address: "741 S Kilby Ct", City: "Salt Lake City", State: "UT", Website: "https://www.kilbycourt.com", SongkickID: 11445, BandsintownID: "10001654"},
	{Name: "The Depot", Slug: "the-depot", Address: "400 W South Temple", City: "Salt Lake City", State: "UT", Website: "https://depotslc.com"},
	{Name: "Metro Music Hall", Slug: "metro-music-hall", Address: "615 W 100 S", City: "Salt Lake City", State: "UT", Website: "https://metromusichall.com"},
	{Name: "The State Room", Slug: "the-state-room", Address: "638 S State St", City: "Salt Lake City", State: "UT"},
	{Name: "Piper Down", Slug: "piper-down", Address: "1492 S State St", City: "Salt Lake City", State: "UT"},
	{Name: "Aces High Saloon", Slug: "aces-high-saloon", Address: "1550 S State St", City: "Salt Lake City", State: "UT"},
	{Name: "The Commonwealth Room", Slug: "the-commonwealth-room", Address: "195 W 2100 S", City: "Salt Lake City", State: "UT"},
	{Name: "Soundwell", Slug: "soundwell", Address: "149 W 200 S", City: "Salt Lake City", State: "UT", Website: "https://www.soundwellslc.com"},
	{Name: "Ice Haus", Slug: "ice-haus", City: "Salt Lake City", State: "UT"},
	{Name: "Barbary Coast", Slug: "barbary-coast", City: "Salt Lake City", State: "UT"},
	{Name: "Velour Live Music Gallery", Slug: "velour", Address: "135 N University Ave", City: "Provo", State: "UT", Website: "https://velourlive.com"},
	{Name: "The Complex", Slug: "the-complex", Address: "536 W 100 S", City: "Salt Lake City", State: "UT"},
	{Name: "Vivint Arena", Slug: "vivint-arena", Address: "301 S Temple", City: "Salt Lake City", State: "UT"},
	{Name: "Red Butte Garden Amphitheatre", Slug: "red-butte-garden", City: "Salt Lake City", State: "UT"},
}

// BySlug returns the registry entry with the given slug.
func BySlug(slug string) (KnownVenue, bool) {
	for _, v := range Registry {
		if v.Slug == slug {
			return v, true
		}
	}
	return KnownVenue{}, false
}

// Match fuzzily matches a scraped venue name against the registry: exact name
// or slug match first, then substring containment in either direction.
func Match(name string) (KnownVenue, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return KnownVenue{}, false
	}
	for _, v := range Registry {
		if strings.ToLower(v.Name) == normalized || v.Slug == normalized {
			return v, true
		}
	}
	for _, v := range Registry {
		if strings.Contains(normalized, v.Slug) || strings.Contains(v.Slug, normalized) {
			return v, true
		}
	}
	return KnownVenue{}, false
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a venue name, replaces runs of non-alphanumeric
// characters with single hyphens, and trims leading and trailing hyphens.
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = nonSlugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
