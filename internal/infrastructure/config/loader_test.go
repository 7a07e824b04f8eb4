package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/clarify/internal/domain"
)

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}
	if cfg.DefaultLevelOrFallback() != domain.LevelStudent {
		t.Fatalf("unexpected default level: %s", cfg.Preferences.DefaultLevel)
	}
	if cfg.History.Store != "sqlite" {
		t.Fatalf("unexpected default store: %s", cfg.History.Store)
	}
	if cfg.RateLimit.MaxRequests != 10 || cfg.RateLimit.WindowSeconds != 60 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoadParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("preferences:\n  default_level: expert\nservice:\n  timeout: 5\nhistory:\n  store: file\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultLevelOrFallback() != domain.LevelExpert {
		t.Fatalf("level not read from file: %+v", cfg.Preferences)
	}
	if cfg.Service.TimeoutSeconds != 5 {
		t.Fatalf("timeout not read from file: %+v", cfg.Service)
	}
	if cfg.History.Store != "file" {
		t.Fatalf("store not read from file: %+v", cfg.History)
	}
	// Keys missing from the file hydrate to usable values.
	if cfg.Service.AuthEnvVar != "CLARIFY_API_KEY" {
		t.Fatalf("auth env var not hydrated: %+v", cfg.Service)
	}
	if cfg.AttemptBudget() != domain.DefaultMaxAttempts {
		t.Fatalf("attempt budget not defaulted: %d", cfg.AttemptBudget())
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
