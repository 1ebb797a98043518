package storage

// schemaSQL is the embedded DDL executed at store initialization.
const schemaSQL = `
-- Fetched pages
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    status_code INTEGER NOT NULL,
    content_hash TEXT,
    body BLOB,
    ttfb_ms INTEGER,
    download_time_ms INTEGER,
    fetched_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pages_content_hash ON pages(content_hash);
CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);

-- Per-page failures
CREATE TABLE IF NOT EXISTS crawl_errors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    error_type TEXT NOT NULL,
    error_message TEXT,
    occurred_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_crawl_errors_url ON crawl_errors(url);
`
