package scrape

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetcherGet(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("unexpected user agent %q", got)
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), NewTTLCache(time.Hour), testLogger())

	body, err := f.Get(context.Background(), "test", srv.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Fatalf("unexpected body %q", body)
	}

	// Second call within the TTL is served from cache.
	if _, err := f.Get(context.Background(), "test", srv.URL); err != nil {
		t.Fatalf("cached Get returned error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits)
	}
}

func TestFetcherGetNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil, testLogger())

	_, err := f.Get(context.Background(), "test", srv.URL)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status code %d", fetchErr.StatusCode)
	}
	if fetchErr.Source != "test" {
		t.Fatalf("unexpected source %q", fetchErr.Source)
	}
}

func TestFetcherGetTransportError(t *testing.T) {
	f := NewFetcher(&http.Client{Timeout: time.Second}, nil, testLogger())

	_, err := f.Get(context.Background(), "test", "http://127.0.0.1:1")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.Err == nil {
		t.Fatal("expected wrapped transport error")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	cache := NewTTLCache(time.Hour)
	current := time.Date(2025, time.November, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Set("u", "body")
	if body, ok := cache.Get("u"); !ok || body != "body" {
		t.Fatalf("expected fresh entry, got %q, %v", body, ok)
	}

	current = current.Add(2 * time.Hour)
	if _, ok := cache.Get("u"); ok {
		t.Fatal("expected entry to be expired")
	}
}
