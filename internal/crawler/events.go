package crawler

import "log/slog"

// PageOutcome marks how a page's processing ended.
type PageOutcome string

const (
	OutcomeSuccess PageOutcome = "success"
	OutcomeFailure PageOutcome = "failure"
)

// PageEvent is emitted once per processed page, in completion order.
type PageEvent struct {
	URL     string
	Outcome PageOutcome
	Cause   ErrorType // Empty on success
}

// EventSink receives per-page progress events. Publish is called from
// worker goroutines and must be safe for concurrent use.
type EventSink interface {
	Publish(ev PageEvent)
}

// LogSink writes page events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink over the given logger; nil uses the
// default logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Publish logs one page event
func (s *LogSink) Publish(ev PageEvent) {
	if ev.Outcome == OutcomeSuccess {
		s.logger.Info("Page processed", "url", ev.URL, "outcome", ev.Outcome)
		return
	}
	s.logger.Warn("Page failed", "url", ev.URL, "outcome", ev.Outcome, "cause", ev.Cause)
}

// nopSink drops events; used when the caller wants none.
type nopSink struct{}

func (nopSink) Publish(PageEvent) {}
