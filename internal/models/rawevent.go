package models

import (
	"fmt"
	"time"
)

// RawEvent is a transient scraped event produced by a source extractor.
// It has not yet been filtered, resolved to a venue, or persisted.
type RawEvent struct {
	Title          string
	Description    string
	VenueName      string
	VenueAddress   string
	StartTime      time.Time
	StartTimeText  string
	EndTimeText    string
	SourceURL      string
	Category       string
	SupportingActs []string
	Source         string // name of the extractor that produced this event
}

// ValidationError reports a raw event that cannot enter the pipeline.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid raw event: %s %s", e.Field, e.Reason)
}

// Validate checks the invariants every raw event must satisfy before it is
// considered scraped: a non-empty title and a real start timestamp.
func (e RawEvent) Validate() error {
	if e.Title == "" {
		return &ValidationError{Field: "title", Reason: "is empty"}
	}
	if e.StartTime.IsZero() {
		return &ValidationError{Field: "start_time", Reason: "is not set"}
	}
	return nil
}
