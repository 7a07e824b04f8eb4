package domain

import (
	"fmt"
	"time"
)

// ValidationError reports input rejected before any cache or network work.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid topic: " + e.Reason
}

// RateLimitedError reports client-side throttling with a wait-time hint.
// It is resolved entirely client-side and never triggers a network call.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.Wait.Round(time.Millisecond))
}

// NetworkError wraps transport-level failures (timeouts, aborts, connectivity).
type NetworkError struct {
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a failed response from the explanation service.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	switch {
	case e.Status == 429:
		return "service is rate limiting requests: " + e.Message
	case e.Status == 503:
		return "service temporarily unavailable: " + e.Message
	case e.Status >= 500:
		return fmt.Sprintf("service error (%d): %s", e.Status, e.Message)
	case e.Status == 400:
		return "service rejected request: " + e.Message
	default:
		return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
	}
}

// Retryable reports whether the status class warrants another attempt.
func (e *ServerError) Retryable() bool {
	return e.Status == 429 || e.Status == 503 || e.Status >= 500
}

// FormatError reports a malformed response body.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
