// Package musicfilter decides whether a scraped event is live-music related.
// General-interest sources like City Weekly list yoga classes and film
// screenings next to concerts, so every raw event passes through here before
// it reaches the store.
package musicfilter

import (
	"strings"

	"github.com/therocksalt/rocksalt/internal/models"
)

var musicKeywords = []string{
	"concert", "show", "gig", "performance", "live music", "live band",
	"band", "bands", "musician", "musicians", "singer", "singer-songwriter",
	"dj", "dj set", "dj night", "dance party", "rave",
	"acoustic", "rock", "punk", "metal", "jazz", "blues", "folk", "country",
	"indie", "alternative", "pop", "hip hop", "rap", "reggae", "soul", "funk",
	"electronic", "edm", "techno", "house", "trance", "dubstep",
	"bluegrass", "americana",

	"album release", "album launch", "single release",
	"tour", "tour date", "tour stop",
	"festival", "music festival",
	"open mic", "open mic night",
	"karaoke", "karaoke night",
	"open jam", "jam session", "jam night",
	"battle of the bands",
	"music night", "music series",

	"venue", "club", "bar", "pub", "tavern", "lounge",
	"theater", "theatre", "hall", "auditorium",
	"stage", "stages",

	"commonwealth room", "state room", "urban lounge", "kilby court",
	"metropolitan", "metro", "depot", "complex", "eccles",
	"red butte", "usana", "vivint", "delta center",
	"tavernacle", "twist", "piper down", "beer bar",
	"quarters", "why kiki", "beehive", "handle bar",
	"scion", "hopkins", "2 row", "kiitos", "fisher",
	"garage", "soundwell", "in the venue", "the depot",
}

var excludeKeywords = []string{
	"dance recital", "dance class", "dance workshop", "dance performance",
	"ballet", "tap dance", "jazz dance", "modern dance",
	"yoga", "yoga class", "meditation", "wellness",
	"art class", "art workshop", "art camp", "art market",
	"craft", "crafting", "sewing", "knitting", "crochet",
	"cooking class", "cooking workshop", "culinary",
	"fitness", "workout", "gym", "exercise",
	"theater", "theatre", "play", "drama",
	"comedy show", "stand-up", "improv",
	"trivia", "bingo", "game night", "board game",
	"book club", "book reading", "author talk",
	"lecture", "seminar",
	"film", "movie", "screening", "cinema",
	"sports", "football", "basketball", "baseball",
	"market", "marketplace", "vendor", "vendor market",
	"art festival", "food festival",
	"exhibition", "gallery", "museum",
	"walking tour", "food tour",
	"charity event",
	"conference", "convention", "expo",
	"training", "course",
	"meetup", "networking",
	"holiday market", "christmas market", "craft fair",
}

// Venue-name fragments that identify music venues, used to rescue events
// whose text trips an exclusion keyword.
var musicVenueIndicators = []string{
	"commonwealth room", "state room", "urban lounge", "kilby court",
	"metropolitan", "metro", "depot", "complex", "eccles",
	"red butte", "usana", "vivint", "delta center",
	"tavernacle", "twist", "piper down", "beer bar",
	"quarters", "why kiki", "beehive", "handle bar",
	"scion", "hopkins", "2 row", "kiitos", "fisher",
	"garage", "soundwell", "in the venue", "the depot",
	"club", "bar", "pub", "tavern", "lounge",
}

// IsMusicEvent reports whether an event looks like live music. Exclusion
// keywords win unless the event is at a known music venue and also carries a
// music keyword; otherwise a music keyword or a known music venue is enough.
func IsMusicEvent(title, category, venue, description string) bool {
	searchText := joinLower(title, category, venue, description)

	for _, exclude := range excludeKeywords {
		if strings.Contains(searchText, exclude) {
			if isMusicVenue(venue) && hasMusicKeyword(searchText) {
				continue
			}
			return false
		}
	}

	return hasMusicKeyword(searchText) || isMusicVenue(venue)
}

// Filter returns only the music-related events, preserving order.
func Filter(events []models.RawEvent) []models.RawEvent {
	kept := make([]models.RawEvent, 0, len(events))
	for _, e := range events {
		if IsMusicEvent(e.Title, e.Category, e.VenueName, e.Description) {
			kept = append(kept, e)
		}
	}
	return kept
}

func joinLower(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " "))
}

func hasMusicKeyword(searchText string) bool {
	for _, keyword := range musicKeywords {
		if strings.Contains(searchText, keyword) {
			return true
		}
	}
	return false
}

func isMusicVenue(venue string) bool {
	if venue == "" {
		return false
	}
	lower := strings.ToLower(venue)
	for _, indicator := range musicVenueIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
