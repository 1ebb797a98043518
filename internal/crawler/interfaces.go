package crawler

import "context"

// Fetcher retrieves a single page over HTTP. Implementations own retry
// policy, redirects, and timeout enforcement; the engine never cancels
// an in-flight fetch on its own, so a Fetcher must return a timeout
// error rather than block forever.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResponse, error)
}

// LinkExtractor returns the absolute outbound links of a page.
// Best-effort: malformed markup yields fewer links, never an error.
type LinkExtractor interface {
	ExtractLinks(body []byte, baseURL string) []string
}

// PageStore handles page persistence
type PageStore interface {
	// Page results
	SavePage(page *PageData) error
	SaveError(crawlErr *CrawlError) error

	// Store lifecycle
	Close() error
}
