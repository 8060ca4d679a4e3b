// Package normalize provides the shared text and date cleanup used by every
// event scraper. All venue-local times are in America/Denver.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

// ParseError reports input text that could not be interpreted as a date or
// time-of-day.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the venue-local time zone. All scraped dates and times are
// interpreted in this zone regardless of server locale.
func Location() *time.Location {
	locOnce.Do(func() {
		var err error
		loc, err = time.LoadLocation("America/Denver")
		if err != nil {
			// tzdata is compiled in, so this only happens if the zone
			// name itself is wrong.
			panic(fmt.Sprintf("load America/Denver: %v", err))
		}
	})
	return loc
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace (including newlines and tabs) into
// single spaces and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Matches "Friday, November 22, 2025", "November 22", "Nov 22 2025",
// "11/22/2025" and the like. Weekday and year are optional.
var (
	looseDateRe   = regexp.MustCompile(`(?i)^(?:[a-z]+,?\s+)??([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?$`)
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?$`)
)

// ParseLooseDate interprets the human date formats the source sites use:
// an optional weekday, a long or abbreviated month name, a day number, and an
// optional year, or a numeric M/D/Y form. When the year is omitted,
// fallbackYear is used. The result is midnight venue-local.
func ParseLooseDate(s string, fallbackYear int) (time.Time, error) {
	clean := CleanText(s)
	if clean == "" {
		return time.Time{}, &ParseError{Input: s, Reason: "empty date"}
	}

	if m := numericDateRe.FindStringSubmatch(clean); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := fallbackYear
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		return buildDate(s, year, time.Month(month), day)
	}

	m := looseDateRe.FindStringSubmatch(clean)
	if m == nil {
		return time.Time{}, &ParseError{Input: s, Reason: "unrecognized date format"}
	}
	month, ok := months[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, &ParseError{Input: s, Reason: "unknown month name"}
	}
	day, _ := strconv.Atoi(m[2])
	year := fallbackYear
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	return buildDate(s, year, month, day)
}

func buildDate(input string, year int, month time.Month, day int) (time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, &ParseError{Input: input, Reason: "month out of range"}
	}
	if day < 1 || day > 31 {
		return time.Time{}, &ParseError{Input: input, Reason: "day out of range"}
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, Location())
	// time.Date normalizes overflow, so Feb 30 rolls into March. Reject that.
	if d.Month() != month || d.Day() != day {
		return time.Time{}, &ParseError{Input: input, Reason: "day out of range for month"}
	}
	return d, nil
}

var looseTimeRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

// ParseLooseTime interprets a clock time like "7pm", "7:30 PM" or "19:00".
// Minutes default to zero. 12am maps to hour 0 and 12pm stays 12; any other
// pm hour gains twelve.
func ParseLooseTime(s string) (hour, minute int, err error) {
	clean := CleanText(s)
	m := looseTimeRe.FindStringSubmatch(clean)
	if m == nil {
		return 0, 0, &ParseError{Input: s, Reason: "unrecognized time format"}
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	meridiem := strings.ToLower(m[3])
	switch {
	case meridiem == "am" && hour == 12:
		hour = 0
	case meridiem == "pm" && hour != 12:
		hour += 12
	}
	if hour > 23 || minute > 59 {
		return 0, 0, &ParseError{Input: s, Reason: "time out of range"}
	}
	return hour, minute, nil
}

// Combine applies a time-of-day to a calendar date, producing a venue-local
// timestamp.
func Combine(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, Location())
}
