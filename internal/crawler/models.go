package crawler

import "time"

// Admission is the outcome of offering a URL to the frontier.
type Admission int

const (
	// AdmissionAccepted means the URL was novel, within budget, and enqueued.
	AdmissionAccepted Admission = iota
	// AdmissionDuplicate means the URL's key was already seen this session.
	AdmissionDuplicate
	// AdmissionBudgetExhausted means the page budget has been reached.
	AdmissionBudgetExhausted
)

// ErrorType classifies per-page failures
type ErrorType string

const (
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeConnection ErrorType = "connection_failed"
	ErrorTypeHTTPStatus ErrorType = "http_status"
	ErrorTypeTransport  ErrorType = "transport_error"
	ErrorTypeStore      ErrorType = "store_error"
)

// PageData represents a fetched page ready for persistence
type PageData struct {
	URL          string        // URL as fetched (after redirects)
	StatusCode   int           // HTTP status code
	Body         []byte        // Response body
	ContentHash  string        // SHA-256 of body for duplicate-content inspection
	TTFB         time.Duration // Time to First Byte
	DownloadTime time.Duration // Total download time
	FetchedAt    time.Time     // Timestamp when fetched (UTC)
}

// CrawlError records a single page's failure. One page's failure is
// isolated; it never aborts the session or other in-flight work.
type CrawlError struct {
	URL          string    // URL where the failure occurred
	ErrorType    ErrorType // Failure classification
	ErrorMessage string    // Detailed error message
	OccurredAt   time.Time // Failure timestamp (UTC)
}

// CrawlResult accumulates the outcome of one crawl session. It is
// written only while the session runs and is immutable once Run returns.
type CrawlResult struct {
	Visited      map[string]struct{} // Normalized keys of successfully fetched pages
	PagesFetched int                 // Count of successful fetches
	Errors       []CrawlError        // Per-page failures in completion order
}

// CrawlStats is a point-in-time snapshot for progress reporting.
type CrawlStats struct {
	PagesFetched int
	QueuedURLs   int
	InFlight     int
	ErrorCount   int
	StartTime    time.Time
	Duration     time.Duration
}
