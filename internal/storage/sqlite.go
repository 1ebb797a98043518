// Package storage provides data persistence for the crawler.
// It implements a SQLite-backed page store for fetched pages and the
// per-page error log.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"webspider/internal/crawler"

	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the crawler.PageStore interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite page store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection prevents lock conflicts under concurrent writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema applies pragmas and creates the database schema
func (s *SQLiteStore) initSchema() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 30000", // 30 second timeout for locks
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SavePage persists one fetched page. The URL is unique per session,
// so INSERT OR REPLACE keeps the store idempotent if an embedder ever
// reuses a database file across runs.
func (s *SQLiteStore) SavePage(page *crawler.PageData) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO pages (
			url, status_code, content_hash, body,
			ttfb_ms, download_time_ms, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		page.URL,
		page.StatusCode,
		page.ContentHash,
		page.Body,
		page.TTFB.Milliseconds(),
		page.DownloadTime.Milliseconds(),
		page.FetchedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save page %s: %w", page.URL, err)
	}
	return nil
}

// SaveError records a per-page failure
func (s *SQLiteStore) SaveError(crawlErr *crawler.CrawlError) error {
	_, err := s.db.Exec(`
		INSERT INTO crawl_errors (url, error_type, error_message, occurred_at)
		VALUES (?, ?, ?, ?)
	`,
		crawlErr.URL,
		string(crawlErr.ErrorType),
		crawlErr.ErrorMessage,
		crawlErr.OccurredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save error for %s: %w", crawlErr.URL, err)
	}
	return nil
}

// PageCount returns the number of stored pages
func (s *SQLiteStore) PageCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// ErrorCount returns the number of recorded failures
func (s *SQLiteStore) ErrorCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM crawl_errors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count errors: %w", err)
	}
	return n, nil
}

// GetPage loads a stored page by URL. Returns nil when absent.
func (s *SQLiteStore) GetPage(url string) (*crawler.PageData, error) {
	var (
		page       crawler.PageData
		ttfbMs     int64
		downloadMs int64
	)

	err := s.db.QueryRow(`
		SELECT url, status_code, content_hash, body, ttfb_ms, download_time_ms, fetched_at
		FROM pages WHERE url = ?
	`, url).Scan(&page.URL, &page.StatusCode, &page.ContentHash, &page.Body, &ttfbMs, &downloadMs, &page.FetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", url, err)
	}

	page.TTFB = time.Duration(ttfbMs) * time.Millisecond
	page.DownloadTime = time.Duration(downloadMs) * time.Millisecond
	return &page, nil
}

// Ensure SQLiteStore implements the PageStore interface
var _ crawler.PageStore = (*SQLiteStore)(nil)
