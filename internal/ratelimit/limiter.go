// Package ratelimit implements the client-side request pacing: a trailing
// window of request timestamps plus adaptive backoff keyed on consecutive
// failures.
package ratelimit

import (
	"sync"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

// Config controls window and backoff behavior. Zero fields fall back to the
// domain defaults.
type Config struct {
	MaxRequests int
	Window      time.Duration
	Adaptive    bool
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Limiter tracks recent request timestamps and consecutive failures to
// decide whether a new request may proceed immediately, and if not, how
// long to wait. State is in-memory only and intentionally ephemeral.
//
// Callers serialize submissions (one in flight at a time); the internal
// mutex only guards against incidental concurrent reads, it is not a
// compare-and-swap submission gate.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu                sync.Mutex
	stamps            []time.Time
	lastRequest       time.Time
	consecutiveErrors int
}

// New constructs a limiter with the real clock.
func New(cfg Config) *Limiter {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock constructs a limiter with an injected clock for tests.
func NewWithClock(cfg Config, clock func() time.Time) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = domain.DefaultRateMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = domain.DefaultRateWindow
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = domain.DefaultBackoffBase
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = domain.DefaultBackoffMax
	}
	return &Limiter{cfg: cfg, now: clock}
}

// Check reports whether a new request may proceed. When limited, the
// decision carries the remaining wait time.
func (l *Limiter) Check() domain.RateDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.stamps) >= l.cfg.MaxRequests {
		wait := l.cfg.Window - now.Sub(l.stamps[0])
		if wait < 0 {
			wait = 0
		}
		return domain.RateDecision{Limited: true, Wait: wait}
	}

	if l.cfg.Adaptive && l.consecutiveErrors > 0 && !l.lastRequest.IsZero() {
		required := l.backoffDelay()
		if elapsed := now.Sub(l.lastRequest); elapsed < required {
			return domain.RateDecision{Limited: true, Wait: required - elapsed}
		}
	}

	return domain.RateDecision{}
}

// Record notes a completed attempt: the timestamp joins the window, and the
// consecutive-error counter resets on success or grows on failure. A timed
// out request counts as a failure like any other.
func (l *Limiter) Record(success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.stamps = append(l.stamps, now)
	l.lastRequest = now
	if success {
		l.consecutiveErrors = 0
	} else {
		l.consecutiveErrors++
	}
	l.prune(now)
}

// Failures returns the current consecutive failure streak.
func (l *Limiter) Failures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.consecutiveErrors
}

// backoffDelay computes base*2^(errors-1) capped at MaxDelay. Callers hold mu.
func (l *Limiter) backoffDelay() time.Duration {
	shift := l.consecutiveErrors - 1
	if shift > 30 {
		shift = 30
	}
	delay := l.cfg.BaseDelay << uint(shift)
	if delay <= 0 || delay > l.cfg.MaxDelay {
		delay = l.cfg.MaxDelay
	}
	return delay
}

// prune drops timestamps older than the window. Callers hold mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.cfg.Window)
	idx := 0
	for idx < len(l.stamps) && !l.stamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[idx:]...)
	}
}

var _ ports.RateLimiter = (*Limiter)(nil)
