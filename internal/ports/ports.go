// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). Following the Ports and Adapters
// (Hexagonal) pattern, these interfaces keep the application independent of
// specific implementations like databases, HTTP clients, or CLI frameworks.
package ports

import (
	"context"

	"github.com/doeshing/clarify/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.clarify/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Provider defines the explanation-generation capability. Each implementation
// wraps one way of obtaining an explanation (remote HTTP service, offline
// fallback).
type Provider interface {
	Name() string
	Explain(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest contains all data needed to obtain one explanation attempt.
type ProviderRequest struct {
	Topic        string
	Level        domain.Level
	ForceRefresh bool
	SessionID    string
	Attempt      int
	Debug        bool
}

// ProviderResponse carries the raw explanation text plus diagnostic fields
// the core passes through without interpreting.
type ProviderResponse struct {
	Explanation    string
	Cached         bool
	ResponseTimeMS int64
	TokenCount     int
}

// Validator rejects malformed or unsafe topic strings before they reach the
// cache or network layers. On success it returns the sanitized topic.
type Validator interface {
	Validate(raw string) (string, error)
}

// RateLimiter paces outbound requests. Check reports whether a request may
// proceed now; Record notes a completed attempt and its outcome for the
// adaptive backoff. Callers serialize submissions; the limiter is not a
// concurrency-control primitive.
type RateLimiter interface {
	Check() domain.RateDecision
	Record(success bool)
}

// HistoryRepository persists the capped, most-recent-first history collection.
// Save enforces the one-canonical-entry-per-topic-and-level invariant.
type HistoryRepository interface {
	Save(domain.HistoryEntry) error
	Recent(limit int) ([]domain.HistoryEntry, error)
	Search(keyword string, limit int) ([]domain.HistoryEntry, error)
	Clear() error
	ExportJSON(dest string) error
	PruneOlderThan(days int) error
	Path() string
}

// SessionStore persists the small scalar preference set between runs.
// SessionID returns a stable identifier, creating one on first use.
type SessionStore interface {
	Load() (domain.SessionState, error)
	Save(domain.SessionState) error
	SessionID() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
