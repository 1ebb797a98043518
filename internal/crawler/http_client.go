package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"time"
)

// FetchError is the failure a Fetcher reports for one URL.
type FetchError struct {
	Type       ErrorType
	StatusCode int // Set for ErrorTypeHTTPStatus
	Message    string
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Type == ErrorTypeHTTPStatus {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// HTTPMetrics contains performance metrics for an HTTP request
type HTTPMetrics struct {
	TTFB         time.Duration // Time to First Byte
	DownloadTime time.Duration // Total download time
}

// FetchResponse contains the response and metrics
type FetchResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Metrics    HTTPMetrics
	FinalURL   string // After following redirects
}

// HTTPClient implements Fetcher on top of net/http
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a new HTTP client. The timeout bounds the whole
// request; a stalled server surfaces as a timeout error instead of
// holding a concurrency slot forever.
func NewHTTPClient(userAgent string, timeout time.Duration) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false, // Enable automatic decompression
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch performs an HTTP GET request with basic performance tracking
// (time to first byte, total download time). Transport failures and
// non-success statuses are returned as *FetchError so the caller can
// record the failure class.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (*FetchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Type: ErrorTypeTransport, Message: err.Error()}
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	var firstByteTime time.Time
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() {
			firstByteTime = time.Now()
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	startTime := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var metrics HTTPMetrics
	if !firstByteTime.IsZero() {
		metrics.TTFB = firstByteTime.Sub(startTime)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	metrics.DownloadTime = time.Since(startTime)

	if resp.StatusCode >= 400 {
		return nil, &FetchError{Type: ErrorTypeHTTPStatus, StatusCode: resp.StatusCode}
	}

	return &FetchResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		Metrics:    metrics,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// Close closes the HTTP client
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}

// classifyTransportError maps a net/http error onto the engine's
// failure taxonomy.
func classifyTransportError(err error) *FetchError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Type: ErrorTypeTimeout, Message: err.Error()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			return &FetchError{Type: ErrorTypeConnection, Message: err.Error()}
		}
	}

	return &FetchError{Type: ErrorTypeTransport, Message: err.Error()}
}
