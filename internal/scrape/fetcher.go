// Package scrape fetches and parses event listings from the source sites.
// Each source implements Scraper with a two-stage strategy: JSON-LD
// structured data when the page carries it, regex extraction otherwise.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/therocksalt/rocksalt/internal/models"
)

const userAgent = "Mozilla/5.0 (compatible; RockSaltBot/1.0; +https://therocksalt.com)"

// Scraper is one event source. Scrape returns every event found on the
// source, unfiltered. An empty or partially parseable page is not an error;
// only transport failures and non-2xx responses are.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]models.RawEvent, error)
}

// Cache stores fetched page bodies so repeated aggregation runs within the
// freshness window do not re-hit the source sites.
type Cache interface {
	Get(url string) (string, bool)
	Set(url, body string)
}

type cacheEntry struct {
	body    string
	expires time.Time
}

// TTLCache is an in-memory Cache with a fixed time-to-live per entry.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewTTLCache creates a cache whose entries expire after ttl.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached body for url if it has not expired.
func (c *TTLCache) Get(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[url]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, url)
		return "", false
	}
	return entry.body, true
}

// Set stores a body for url.
func (c *TTLCache) Set(url, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{body: body, expires: c.now().Add(c.ttl)}
}

// Fetcher performs cached HTTP GETs on behalf of the scrapers.
type Fetcher struct {
	client *http.Client
	cache  Cache
	logger *slog.Logger
}

// NewFetcher wraps client with cache. A nil client falls back to a default
// with a 30 second timeout; a nil cache disables caching.
func NewFetcher(client *http.Client, cache Cache, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, cache: cache, logger: logger}
}

// Get fetches url, serving from cache when fresh. It returns a *FetchError
// on transport failure or any non-2xx status.
func (f *Fetcher) Get(ctx context.Context, source, url string) (string, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(url); ok {
			f.logger.Debug("cache hit", "source", source, "url", url)
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Source: source, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{Source: source, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Source: source, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Source: source, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	if f.cache != nil {
		f.cache.Set(url, string(body))
	}
	return string(body), nil
}
