package models

import "time"

// Event is a persisted canonical event owned by the content store. The
// scraper pipeline only ever creates events; re-scrapes that match an
// existing record are skipped, never merged. The external-API curation path
// is the one writer allowed to update, keyed by ExternalID.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	VenueID        string    `json:"venue_id"`
	StartTime      time.Time `json:"start_time"`
	Description    string    `json:"description,omitempty"`
	ExternalURL    string    `json:"external_url,omitempty"`
	TicketURL      string    `json:"ticket_url,omitempty"`
	ExternalID     string    `json:"external_id,omitempty"`
	Source         string    `json:"source,omitempty"`
	AgeRestriction string    `json:"age_restriction,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EventQuery narrows event listings for the read API.
type EventQuery struct {
	VenueSlug string
	From      time.Time
	To        time.Time
	Limit     int
}
