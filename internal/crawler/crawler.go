// Package crawler implements the breadth-first crawl engine: the
// frontier (URL queue plus dedup set), the bounded-concurrency
// dispatcher that drains it, and the worker pool that fetches pages,
// extracts outbound links and feeds them back into the frontier until
// the page budget is spent or no work remains.
package crawler

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"webspider/internal/config"
	"webspider/internal/parser"
)

// State describes where a session is in its lifecycle. Transitions are
// Idle -> Running -> Completed or Aborted; a terminal state is final.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Session is one complete run of the crawl engine from a root URL to
// termination. Frontier, dispatcher and result live for exactly one
// session; there is no cross-session reuse.
type Session struct {
	config    *config.CrawlConfig
	store     PageStore
	fetcher   Fetcher
	extractor LinkExtractor
	sink      EventSink
	limiter   *rate.Limiter

	frontier   *Frontier
	dispatcher *Dispatcher

	result   *CrawlResult
	resultMu sync.Mutex

	state   State
	stateMu sync.RWMutex

	startTime time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewCrawler creates a new crawl session with the provided
// configuration and page store. The default HTTP fetcher and HTML link
// extractor are wired in; tests and embedders can replace them before
// Run.
func NewCrawler(cfg *config.CrawlConfig, store PageStore) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}
	if store == nil {
		store = NopStore{}
	}

	s := &Session{
		config:    cfg,
		store:     store,
		fetcher:   NewHTTPClient(cfg.UserAgent, cfg.RequestTimeout),
		extractor: parser.NewLinkExtractor(),
		sink:      nopSink{},
		state:     StateIdle,
	}

	if cfg.RequestRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), 1)
	}

	return s, nil
}

// SetFetcher replaces the HTTP fetcher. Must be called before Run.
func (s *Session) SetFetcher(f Fetcher) {
	s.fetcher = f
}

// SetExtractor replaces the link extractor. Must be called before Run.
func (s *Session) SetExtractor(e LinkExtractor) {
	s.extractor = e
}

// SetEventSink registers a sink receiving one event per processed
// page. Must be called before Run.
func (s *Session) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = nopSink{}
	}
	s.sink = sink
}

// Run executes the crawl to completion and returns the accumulated
// result. It returns an error only for fatal configuration problems
// detected before the first fetch; per-page failures are recorded in
// the result instead. Cancelling ctx stops the crawl early and still
// returns the partial result.
func (s *Session) Run(ctx context.Context) (*CrawlResult, error) {
	if err := s.config.Validate(); err != nil {
		s.setState(StateAborted)
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s.setState(StateRunning)
	s.startTime = time.Now()
	s.ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	s.frontier = NewFrontier(s.config.MaxPages)
	s.dispatcher = NewDispatcher(s.frontier, s.config.MaxTasks)
	s.result = &CrawlResult{Visited: make(map[string]struct{})}

	// Seed the frontier before any worker starts.
	s.frontier.TryAdmit(s.config.RootURL)
	slog.Info("Starting crawl", "root_url", s.config.RootURL,
		"max_tasks", s.config.MaxTasks, "max_pages", s.config.MaxPages, "workers", s.config.Workers)

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	reporterDone := make(chan struct{})
	go s.statsReporter(reporterDone)

	s.wg.Wait()
	s.cancel()
	<-reporterDone

	s.setState(StateCompleted)
	stats := s.GetStats()
	slog.Info("Crawl completed", "pages_fetched", stats.PagesFetched,
		"errors", stats.ErrorCount, "duration", stats.Duration)

	return s.result, nil
}

// Stop cancels a running crawl. In-flight fetches are abandoned via
// their context; Run still returns the partial result.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if hc, ok := s.fetcher.(*HTTPClient); ok {
		hc.Close()
	}
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	// Terminal states are final.
	if s.state == StateCompleted || s.state == StateAborted {
		return
	}
	s.state = state
}

// GetStats returns a snapshot of crawl progress.
func (s *Session) GetStats() CrawlStats {
	stats := CrawlStats{
		StartTime: s.startTime,
		Duration:  time.Since(s.startTime),
	}
	if s.frontier != nil {
		stats.QueuedURLs = s.frontier.QueueLen()
	}
	if s.dispatcher != nil {
		stats.InFlight = s.dispatcher.InFlight()
	}
	s.resultMu.Lock()
	if s.result != nil {
		stats.PagesFetched = s.result.PagesFetched
		stats.ErrorCount = len(s.result.Errors)
	}
	s.resultMu.Unlock()
	return stats
}

// worker runs for the session's duration, pulling one URL at a time
// from the dispatcher. It exits cleanly when the dispatcher declares
// termination; no worker is killed mid-fetch.
func (s *Session) worker(id int) {
	defer s.wg.Done()
	slog.Debug("Worker started", "worker_id", id)

	for {
		rawURL, ok := s.dispatcher.Next(s.ctx)
		if !ok {
			slog.Debug("Worker stopped", "worker_id", id)
			return
		}
		s.processURL(id, rawURL)
		s.dispatcher.Complete()
	}
}

// processURL performs one fetch attempt and records its outcome. Every
// failure is caught here; nothing propagates out of the worker loop.
func (s *Session) processURL(id int, rawURL string) {
	resp, err := s.fetchPage(rawURL)
	if err != nil {
		if s.ctx.Err() != nil {
			// Cancelled, not failed; the page was never attempted to completion.
			return
		}
		s.recordFailure(id, rawURL, err)
		return
	}

	s.admitLinks(id, rawURL, resp)

	page := &PageData{
		URL:          resp.FinalURL,
		StatusCode:   resp.StatusCode,
		Body:         resp.Body,
		ContentHash:  fmt.Sprintf("%x", sha256.Sum256(resp.Body)),
		TTFB:         resp.Metrics.TTFB,
		DownloadTime: resp.Metrics.DownloadTime,
		FetchedAt:    time.Now().UTC(),
	}
	if err := s.store.SavePage(page); err != nil {
		s.recordFailure(id, rawURL, &FetchError{Type: ErrorTypeStore, Message: err.Error()})
		return
	}

	s.recordSuccess(id, rawURL, resp)
}

// fetchPage waits for a concurrency slot and performs the HTTP fetch.
// The slot is released unconditionally so a failed pipeline can never
// leak one.
func (s *Session) fetchPage(rawURL string) (*FetchResponse, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(s.ctx); err != nil {
			return nil, &FetchError{Type: ErrorTypeTransport, Message: err.Error()}
		}
	}

	if err := s.dispatcher.AcquireSlot(s.ctx); err != nil {
		return nil, &FetchError{Type: ErrorTypeTransport, Message: err.Error()}
	}
	defer s.dispatcher.ReleaseSlot()

	return s.fetcher.Fetch(s.ctx, rawURL)
}

// admitLinks extracts outbound links and offers each to the frontier.
// Duplicates and budget-exhausted admissions are benign no-ops.
func (s *Session) admitLinks(id int, rawURL string, resp *FetchResponse) {
	links := s.extractor.ExtractLinks(resp.Body, resp.FinalURL)

	var admitted, duplicates, overBudget int
	for _, link := range links {
		switch s.dispatcher.Admit(link) {
		case AdmissionAccepted:
			admitted++
		case AdmissionDuplicate:
			duplicates++
		case AdmissionBudgetExhausted:
			overBudget++
		}
	}

	slog.Debug("Worker extracted links", "worker_id", id, "url", rawURL,
		"found", len(links), "admitted", admitted, "duplicates", duplicates, "over_budget", overBudget)
}

func (s *Session) recordSuccess(id int, rawURL string, resp *FetchResponse) {
	key := NormalizeURL(rawURL)

	s.resultMu.Lock()
	s.result.Visited[key] = struct{}{}
	s.result.PagesFetched++
	s.resultMu.Unlock()

	s.sink.Publish(PageEvent{URL: rawURL, Outcome: OutcomeSuccess})
	slog.Info("Worker processed URL", "worker_id", id, "url", rawURL, "status", resp.StatusCode)
}

func (s *Session) recordFailure(id int, rawURL string, err error) {
	crawlErr := CrawlError{
		URL:          rawURL,
		ErrorType:    ErrorTypeTransport,
		ErrorMessage: err.Error(),
		OccurredAt:   time.Now().UTC(),
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		crawlErr.ErrorType = fe.Type
	}

	s.resultMu.Lock()
	s.result.Errors = append(s.result.Errors, crawlErr)
	s.resultMu.Unlock()

	if saveErr := s.store.SaveError(&crawlErr); saveErr != nil {
		slog.Error("Worker failed to save error", "worker_id", id, "error", saveErr)
	}

	s.sink.Publish(PageEvent{URL: rawURL, Outcome: OutcomeFailure, Cause: crawlErr.ErrorType})
	slog.Warn("Worker failed to process URL", "worker_id", id, "url", rawURL,
		"error_type", crawlErr.ErrorType, "error", crawlErr.ErrorMessage)
}

// statsReporter periodically logs crawl progress until the session's
// context is cancelled.
func (s *Session) statsReporter(done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			stats := s.GetStats()
			slog.Info("Crawling stats", "fetched", stats.PagesFetched, "queued", stats.QueuedURLs,
				"in_flight", stats.InFlight, "errors", stats.ErrorCount, "duration", stats.Duration)
		}
	}
}

// NopStore discards pages; it backs store-less sessions.
type NopStore struct{}

// SavePage implements PageStore
func (NopStore) SavePage(*PageData) error { return nil }

// SaveError implements PageStore
func (NopStore) SaveError(*CrawlError) error { return nil }

// Close implements PageStore
func (NopStore) Close() error { return nil }
