// Package curate syncs events from external concert APIs (Bandsintown,
// Songkick) into the content store. Unlike the scraper path, curated events
// carry a stable external ID per source and are updated in place when the
// API data changes.
package curate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	bandsintownBaseURL = "https://rest.bandsintown.com"
	defaultAppID       = "therocksalt"
)

// BandsintownEvent is one event from the Bandsintown public API.
type BandsintownEvent struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Datetime    string   `json:"datetime"`
	Description string   `json:"description"`
	Lineup      []string `json:"lineup"`
	Venue       struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		City     string `json:"city"`
		Region   string `json:"region"`
		Country  string `json:"country"`
	} `json:"venue"`
	Offers []struct {
		Type   string `json:"type"`
		URL    string `json:"url"`
		Status string `json:"status"`
	} `json:"offers"`
}

// BandsintownClient calls the Bandsintown REST API.
type BandsintownClient struct {
	BaseURL string

	client *http.Client
	appID  string
	logger *slog.Logger
}

// NewBandsintownClient builds a client. An empty appID falls back to the
// default application ID.
func NewBandsintownClient(client *http.Client, appID string, logger *slog.Logger) *BandsintownClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if appID == "" {
		appID = defaultAppID
	}
	return &BandsintownClient{BaseURL: bandsintownBaseURL, client: client, appID: appID, logger: logger}
}

// LocationEvents searches for events around a city within radius miles.
func (c *BandsintownClient) LocationEvents(ctx context.Context, city, state string, radius int) ([]BandsintownEvent, error) {
	endpoint := fmt.Sprintf("%s/events/search?location=%s&radius=%d&app_id=%s",
		c.BaseURL, url.QueryEscape(city+","+state), radius, url.QueryEscape(c.appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bandsintown: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bandsintown: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bandsintown: status %d", resp.StatusCode)
	}

	var events []BandsintownEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("bandsintown: decode response: %w", err)
	}

	c.logger.Debug("fetched bandsintown events", "count", len(events))
	return events, nil
}
