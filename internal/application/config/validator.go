// Package config validates configuration consistency before it is saved.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/doeshing/clarify/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if cfg.Preferences.DefaultLevel != "" {
		if _, err := domain.ParseLevel(cfg.Preferences.DefaultLevel); err != nil {
			return fmt.Errorf("preferences.default_level: %w", err)
		}
	}
	switch strings.ToLower(cfg.Preferences.RenderMode) {
	case "", "text", "markdown", "html":
	default:
		return fmt.Errorf("preferences.render_mode must be text|markdown|html, got %s", cfg.Preferences.RenderMode)
	}
	if err := validateService(cfg.Service); err != nil {
		return err
	}
	if err := validateRateLimit(cfg.RateLimit); err != nil {
		return err
	}
	return validateHistory(cfg.History)
}

func validateService(svc domain.ServiceSettings) error {
	if svc.Endpoint != "" {
		parsed, err := url.Parse(svc.Endpoint)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("service.endpoint must be an http(s) URL, got %s", svc.Endpoint)
		}
	}
	if svc.TimeoutSeconds < 0 {
		return fmt.Errorf("service.timeout must be >= 0")
	}
	if svc.MaxAttempts < 0 {
		return fmt.Errorf("service.max_attempts must be >= 0")
	}
	return nil
}

func validateRateLimit(rl domain.RateLimitSettings) error {
	if rl.MaxRequests < 0 {
		return fmt.Errorf("rate_limit.max_requests must be >= 0")
	}
	if rl.WindowSeconds < 0 {
		return fmt.Errorf("rate_limit.window_seconds must be >= 0")
	}
	if rl.BaseDelayMS < 0 || rl.MaxDelayMS < 0 {
		return fmt.Errorf("rate_limit delays must be >= 0")
	}
	if rl.BaseDelayMS > 0 && rl.MaxDelayMS > 0 && rl.BaseDelayMS > rl.MaxDelayMS {
		return fmt.Errorf("rate_limit.base_delay_ms must not exceed max_delay_ms")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch strings.ToLower(history.Store) {
	case "", "sqlite", "file":
	default:
		return fmt.Errorf("history.store must be sqlite|file, got %s", history.Store)
	}
	if history.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must be >= 0")
	}
	if history.RetainDays < 0 {
		return fmt.Errorf("history.retain_days must be >= 0")
	}
	return nil
}
