package domain

import (
	"testing"
	"time"
)

func TestDefaultLevelOrFallback(t *testing.T) {
	tests := []struct {
		name     string
		pref     string
		expected Level
	}{
		{"empty preference falls back to student", "", LevelStudent},
		{"valid preference is honored", "expert", LevelExpert},
		{"case insensitive", "Detailed", LevelDetailed},
		{"unknown preference falls back to student", "phd", LevelStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Preferences: Preferences{DefaultLevel: tt.pref}}
			if got := cfg.DefaultLevelOrFallback(); got != tt.expected {
				t.Fatalf("DefaultLevelOrFallback() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if _, err := ParseLevel("graduate"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	level, err := ParseLevel("  Simple ")
	if err != nil {
		t.Fatalf("ParseLevel error: %v", err)
	}
	if level != LevelSimple {
		t.Fatalf("ParseLevel = %q, want %q", level, LevelSimple)
	}
}

func TestConfigTimeoutsAndBudgets(t *testing.T) {
	var cfg Config
	if got := cfg.RequestTimeout(); got != DefaultRequestTimeout {
		t.Fatalf("zero config RequestTimeout = %v", got)
	}
	if got := cfg.AttemptBudget(); got != DefaultMaxAttempts {
		t.Fatalf("zero config AttemptBudget = %v", got)
	}
	cfg.Service.TimeoutSeconds = 5
	cfg.Service.MaxAttempts = 7
	if got := cfg.RequestTimeout(); got != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", got)
	}
	if got := cfg.AttemptBudget(); got != 7 {
		t.Fatalf("AttemptBudget = %v, want 7", got)
	}
}

func TestConfigRateLimitDefaults(t *testing.T) {
	var cfg Config
	if got := cfg.RateWindow(); got != DefaultRateWindow {
		t.Fatalf("RateWindow = %v", got)
	}
	if got := cfg.RateMaxRequests(); got != DefaultRateMaxRequests {
		t.Fatalf("RateMaxRequests = %v", got)
	}
	cfg.RateLimit = RateLimitSettings{
		MaxRequests:   3,
		WindowSeconds: 10,
		BaseDelayMS:   250,
		MaxDelayMS:    4000,
	}
	if got := cfg.RateWindow(); got != 10*time.Second {
		t.Fatalf("RateWindow = %v, want 10s", got)
	}
	if got := cfg.BackoffBase(); got != 250*time.Millisecond {
		t.Fatalf("BackoffBase = %v, want 250ms", got)
	}
	if got := cfg.BackoffMax(); got != 4*time.Second {
		t.Fatalf("BackoffMax = %v, want 4s", got)
	}
}

func TestConfigHistoryDefaults(t *testing.T) {
	var cfg Config
	if got := cfg.HistoryMax(); got != DefaultHistoryMax {
		t.Fatalf("HistoryMax = %v", got)
	}
	if got := cfg.HistoryRetainDays(); got != DefaultHistoryRetainDays {
		t.Fatalf("HistoryRetainDays = %v", got)
	}
	cfg.History.MaxEntries = 10
	if got := cfg.HistoryMax(); got != 10 {
		t.Fatalf("HistoryMax = %v, want 10", got)
	}
}
