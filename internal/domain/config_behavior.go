package domain

import "time"

// DefaultLevelOrFallback resolves the preferred difficulty tier, falling back
// to the student tier when the preference is missing or malformed.
func (c *Config) DefaultLevelOrFallback() Level {
	if c.Preferences.DefaultLevel == "" {
		return LevelStudent
	}
	level, err := ParseLevel(c.Preferences.DefaultLevel)
	if err != nil {
		return LevelStudent
	}
	return level
}

// RequestTimeout returns the per-attempt timeout for provider calls.
func (c *Config) RequestTimeout() time.Duration {
	if c.Service.TimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

// AttemptBudget returns the bounded retry count for a single request.
func (c *Config) AttemptBudget() int {
	if c.Service.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.Service.MaxAttempts
}

// RateWindow returns the trailing window used for request counting.
func (c *Config) RateWindow() time.Duration {
	if c.RateLimit.WindowSeconds <= 0 {
		return DefaultRateWindow
	}
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// RateMaxRequests returns the in-window request ceiling.
func (c *Config) RateMaxRequests() int {
	if c.RateLimit.MaxRequests <= 0 {
		return DefaultRateMaxRequests
	}
	return c.RateLimit.MaxRequests
}

// BackoffBase returns the first inter-request delay after a failure.
func (c *Config) BackoffBase() time.Duration {
	if c.RateLimit.BaseDelayMS <= 0 {
		return DefaultBackoffBase
	}
	return time.Duration(c.RateLimit.BaseDelayMS) * time.Millisecond
}

// BackoffMax returns the cap on the adaptive backoff delay.
func (c *Config) BackoffMax() time.Duration {
	if c.RateLimit.MaxDelayMS <= 0 {
		return DefaultBackoffMax
	}
	return time.Duration(c.RateLimit.MaxDelayMS) * time.Millisecond
}

// HistoryMax returns the working history cap.
func (c *Config) HistoryMax() int {
	if c.History.MaxEntries <= 0 {
		return DefaultHistoryMax
	}
	return c.History.MaxEntries
}

// HistoryRetainDays returns the retention horizon for persisted history.
func (c *Config) HistoryRetainDays() int {
	if c.History.RetainDays <= 0 {
		return DefaultHistoryRetainDays
	}
	return c.History.RetainDays
}
