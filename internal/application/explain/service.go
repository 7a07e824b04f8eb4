// Package explain implements the core explanation use case: validation,
// rate limiting, fuzzy cache lookup, provider calls with bounded retries and
// history persistence.
package explain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/match"
	"github.com/doeshing/clarify/internal/ports"
)

// Service orchestrates the explanation lifecycle end-to-end.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Provider       ports.Provider
	Validator      ports.Validator
	Limiter        ports.RateLimiter
	History        ports.HistoryRepository
	Session        ports.SessionStore
	Logger         ports.Logger
}

// Run processes a single explanation request.
func (s *Service) Run(req domain.ExplainRequest) (domain.ExplainResponse, error) {
	if s.ConfigProvider == nil || s.Provider == nil || s.Validator == nil ||
		s.Limiter == nil || s.History == nil || s.Session == nil || s.Logger == nil {
		return domain.ExplainResponse{}, errors.New("explain.Service dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.ExplainResponse{}, fmt.Errorf("load config: %w", err)
	}

	topic, err := s.Validator.Validate(req.Topic)
	if err != nil {
		return domain.ExplainResponse{}, err
	}

	level := req.Level
	if level == "" {
		level = cfg.DefaultLevelOrFallback()
	}

	// Throttling is resolved before any cache or network work so a limited
	// client gets a wait hint without burning an attempt.
	decision := s.Limiter.Check()
	s.Logger.Debug("rate limit check", map[string]interface{}{
		"limited": decision.Limited,
		"wait":    decision.Wait.String(),
	})
	if decision.Limited {
		return domain.ExplainResponse{}, &domain.RateLimitedError{Wait: decision.Wait}
	}

	if !req.ForceRefresh {
		if hit := s.cacheLookup(topic, level, cfg.HistoryMax()); hit != nil {
			s.Logger.Debug("cache hit", map[string]interface{}{
				"topic": topic,
				"level": string(level),
			})
			// Refresh the entry timestamp so the hit counts as recent use.
			// A cache hit never records against the rate limiter.
			refreshed := *hit
			refreshed.Timestamp = time.Now()
			refreshed.Cached = true
			if err := s.History.Save(refreshed); err != nil {
				s.Logger.Warn("history refresh failed", map[string]interface{}{"error": err.Error()})
			}
			return domain.ExplainResponse{
				Topic:       topic,
				Level:       level,
				Explanation: hit.Explanation,
				FromCache:   true,
				TokenCount:  hit.TokenCount,
			}, nil
		}
	}

	resp, attempts, err := s.callWithRetries(ctx, cfg, ports.ProviderRequest{
		Topic:        topic,
		Level:        level,
		ForceRefresh: req.ForceRefresh,
		SessionID:    s.Session.SessionID(),
		Debug:        req.Debug,
	})
	if err != nil {
		return domain.ExplainResponse{}, err
	}

	now := time.Now()
	entry := domain.HistoryEntry{
		ID:             now.UnixMilli(),
		Topic:          topic,
		Level:          level,
		Explanation:    resp.Explanation,
		Timestamp:      now,
		Cached:         resp.Cached,
		ResponseTimeMS: resp.ResponseTimeMS,
		TokenCount:     resp.TokenCount,
	}
	if err := s.History.Save(entry); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}

	return domain.ExplainResponse{
		Topic:          topic,
		Level:          level,
		Explanation:    resp.Explanation,
		FromCache:      resp.Cached,
		Attempts:       attempts,
		ResponseTimeMS: resp.ResponseTimeMS,
		TokenCount:     resp.TokenCount,
	}, nil
}

// cacheLookup scans recent history for an exact or fuzzy topic match at the
// requested level. Lookup failures are logged and treated as a miss.
func (s *Service) cacheLookup(topic string, level domain.Level, limit int) *domain.HistoryEntry {
	entries, err := s.History.Recent(limit)
	if err != nil {
		s.Logger.Warn("history lookup failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return match.FindCached(topic, level, entries)
}

// callWithRetries drives the bounded retry loop. Every finished attempt is
// recorded with the limiter; retries back off exponentially from the
// configured base delay. Timeouts, cancellation and non-retryable service
// errors end the loop early.
func (s *Service) callWithRetries(
	ctx context.Context,
	cfg domain.Config,
	preq ports.ProviderRequest,
) (ports.ProviderResponse, int, error) {
	budget := cfg.AttemptBudget()
	var lastErr error

	for attempt := 1; attempt <= budget; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, retryDelay(cfg, attempt)); err != nil {
				return ports.ProviderResponse{}, attempt - 1, &domain.NetworkError{Err: err}
			}
		}

		preq.Attempt = attempt
		s.Logger.Info("calling provider", map[string]interface{}{
			"provider": s.Provider.Name(),
			"topic":    preq.Topic,
			"level":    string(preq.Level),
			"attempt":  attempt,
		})

		attemptCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
		resp, err := s.Provider.Explain(attemptCtx, preq)
		cancel()

		s.Limiter.Record(err == nil)
		if err == nil {
			return resp, attempt, nil
		}
		lastErr = err

		if terminal(ctx, err) {
			return ports.ProviderResponse{}, attempt, err
		}
		s.Logger.Warn("attempt failed, retrying", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
	return ports.ProviderResponse{}, budget, lastErr
}

// terminal reports whether an attempt error should stop the retry loop: the
// caller went away, the attempt timed out, or the service said the request
// itself is bad.
func terminal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) && netErr.Timeout {
		return true
	}
	var srvErr *domain.ServerError
	if errors.As(err, &srvErr) && !srvErr.Retryable() {
		return true
	}
	return false
}

func retryDelay(cfg domain.Config, attempt int) time.Duration {
	delay := cfg.BackoffBase()
	for i := 2; i < attempt; i++ {
		delay *= 2
		if delay >= cfg.BackoffMax() {
			return cfg.BackoffMax()
		}
	}
	if max := cfg.BackoffMax(); delay > max {
		return max
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ domain.ExplainService = (*Service)(nil)
