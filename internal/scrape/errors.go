package scrape

import "fmt"

// FetchError reports a transport failure or non-2xx response from a source
// site. Parse problems never produce a FetchError; extractors skip malformed
// blocks instead.
type FetchError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: fetch %s: %v", e.Source, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: fetch %s: status %d", e.Source, e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
