package models

import "time"

// Venue is a persisted music venue. Venues are created lazily the first time
// a scraped event references an unknown venue name and are never deleted by
// the aggregation pipeline.
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
