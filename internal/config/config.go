// Package config provides configuration management for the crawler.
// It defines the crawl session configuration and its validation rules.
package config

import (
	"net/url"
	"runtime"
	"time"
)

// CrawlConfig holds the configuration for one crawl session. It is
// immutable for the session's lifetime.
type CrawlConfig struct {
	// Crawl parameters
	RootURL  string `mapstructure:"root_url" yaml:"root_url"`   // URL the crawl starts from
	MaxTasks int    `mapstructure:"max_tasks" yaml:"max_tasks"` // Max simultaneously outstanding fetches
	MaxPages int    `mapstructure:"max_pages" yaml:"max_pages"` // Max URLs ever admitted for fetching
	Workers  int    `mapstructure:"n_workers" yaml:"n_workers"` // Number of worker goroutines

	// HTTP parameters
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // Per-request timeout
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent header
	RequestRate    float64       `mapstructure:"request_rate" yaml:"request_rate"`       // Requests per second, 0 = unlimited

	// Storage configuration
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // Path to SQLite database file
	NoStore      bool   `mapstructure:"no_store" yaml:"no_store"`           // Skip page persistence entirely
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *CrawlConfig {
	return &CrawlConfig{
		MaxTasks:       5,
		MaxPages:       100,
		Workers:        runtime.NumCPU(),
		RequestTimeout: 30 * time.Second,
		UserAgent:      "WebSpider/1.0",
		RequestRate:    0,
		DatabasePath:   "./webspider.db",
	}
}

// Validate checks if the configuration is valid. Any error here is
// fatal for the session; no crawl work begins.
func (c *CrawlConfig) Validate() error {
	if c.RootURL == "" {
		return ErrMissingRootURL
	}

	u, err := url.Parse(c.RootURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidRootURL
	}

	if c.MaxTasks < 1 {
		return ErrInvalidMaxTasks
	}

	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	// Workers beyond max-tasks just contend for the same slots; wasteful
	// but permitted.
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RequestRate < 0 {
		return ErrInvalidRequestRate
	}

	if !c.NoStore && c.DatabasePath == "" {
		return ErrEmptyDatabasePath
	}

	return nil
}
