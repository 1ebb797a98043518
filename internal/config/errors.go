package config

import "errors"

var (
	// ErrMissingRootURL is returned when no root URL is provided
	ErrMissingRootURL = errors.New("root URL is required")
	// ErrInvalidRootURL is returned when the root URL is not an absolute http(s) URL
	ErrInvalidRootURL = errors.New("root URL must be an absolute http or https URL")
	// ErrInvalidMaxTasks is returned when max_tasks is not at least 1
	ErrInvalidMaxTasks = errors.New("max_tasks must be at least 1")
	// ErrInvalidMaxPages is returned when max_pages is not at least 1
	ErrInvalidMaxPages = errors.New("max_pages must be at least 1")
	// ErrInvalidWorkers is returned when n_workers is not at least 1
	ErrInvalidWorkers = errors.New("n_workers must be at least 1")
	// ErrInvalidTimeout is returned when request_timeout is not greater than 0
	ErrInvalidTimeout = errors.New("request_timeout must be greater than 0")
	// ErrInvalidRequestRate is returned when request_rate is negative
	ErrInvalidRequestRate = errors.New("request_rate cannot be negative")
	// ErrEmptyDatabasePath is returned when database_path is empty and storage is enabled
	ErrEmptyDatabasePath = errors.New("database_path cannot be empty")
)
