package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// History constants
const (
	// DefaultHistoryMax caps the working history collection
	DefaultHistoryMax = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 90
	// DefaultHistoryListLimit is the default number of history records to display
	DefaultHistoryListLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
)

// Matching constants
const (
	// FuzzyMatchThreshold is the minimum similarity for a fuzzy cache hit
	FuzzyMatchThreshold = 0.85
	// MaxSuggestions caps the suggestion list returned per keystroke
	MaxSuggestions = 8
	// SuggestionScoreFloor discards candidates scoring below it
	SuggestionScoreFloor = 0.3
	// SuggestionRecencyWindow is the span over which the recency bonus decays
	SuggestionRecencyWindow = 7 * 24 * time.Hour
)

// Validation constants
const (
	// MinTopicLength is the minimum topic length in runes
	MinTopicLength = 2
	// MaxTopicLength is the maximum topic length in runes
	MaxTopicLength = 200
)

// Rate limit constants
const (
	// DefaultRateMaxRequests is the maximum requests allowed per window
	DefaultRateMaxRequests = 10
	// DefaultRateWindow is the trailing window for request counting
	DefaultRateWindow = time.Minute
	// DefaultBackoffBase is the first inter-request delay after a failure
	DefaultBackoffBase = time.Second
	// DefaultBackoffMax caps the adaptive backoff delay
	DefaultBackoffMax = 30 * time.Second
)

// Service constants
const (
	// DefaultRequestTimeout bounds a single provider attempt
	DefaultRequestTimeout = 30 * time.Second
	// DefaultMaxAttempts bounds the retry loop per request
	DefaultMaxAttempts = 3
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
