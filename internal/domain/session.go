package domain

import "time"

// SessionState holds the small set of scalar preferences persisted between
// runs alongside the history collection.
type SessionState struct {
	SessionID string `json:"session_id"`
	Theme     string `json:"theme,omitempty"`
	LastLevel string `json:"last_level,omitempty"`
}

// RateDecision is the outcome of a rate-limit check.
type RateDecision struct {
	Limited bool
	Wait    time.Duration
}
