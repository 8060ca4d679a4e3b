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

const songkickBaseURL = "https://api.songkick.com/api/3.0"

// SaltLakeCityMetroID is Songkick's metro-area identifier for the Salt Lake
// City region.
const SaltLakeCityMetroID = 17318

// SongkickEvent is one event from the Songkick API.
type SongkickEvent struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	URI         string `json:"uri"`
	Start       struct {
		Date     string `json:"date"`
		Datetime string `json:"datetime"`
	} `json:"start"`
	Location struct {
		City string `json:"city"`
	} `json:"location"`
	Venue struct {
		ID          int64  `json:"id"`
		DisplayName string `json:"displayName"`
		MetroArea   struct {
			DisplayName string `json:"displayName"`
			State       struct {
				DisplayName string `json:"displayName"`
			} `json:"state"`
		} `json:"metroArea"`
	} `json:"venue"`
	AgeRestriction string `json:"ageRestriction"`
}

type songkickEnvelope struct {
	ResultsPage struct {
		Results struct {
			Event []SongkickEvent `json:"event"`
		} `json:"results"`
	} `json:"resultsPage"`
}

// SongkickClient calls the Songkick API. It requires an API key.
type SongkickClient struct {
	BaseURL string

	client *http.Client
	apiKey string
	logger *slog.Logger
}

func NewSongkickClient(client *http.Client, apiKey string, logger *slog.Logger) *SongkickClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SongkickClient{BaseURL: songkickBaseURL, client: client, apiKey: apiKey, logger: logger}
}

// MetroAreaEvents returns the upcoming calendar for a metro area.
func (c *SongkickClient) MetroAreaEvents(ctx context.Context, metroAreaID int) ([]SongkickEvent, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("songkick: API key not configured")
	}

	endpoint := fmt.Sprintf("%s/metro_areas/%d/calendar.json?apikey=%s",
		c.BaseURL, metroAreaID, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("songkick: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("songkick: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("songkick: status %d", resp.StatusCode)
	}

	var envelope songkickEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("songkick: decode response: %w", err)
	}

	events := envelope.ResultsPage.Results.Event
	c.logger.Debug("fetched songkick events", "count", len(events))
	return events, nil
}
