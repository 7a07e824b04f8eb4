// Package app wires application services to their infrastructure adapters.
package app

import (
	"context"

	"github.com/doeshing/clarify/internal/application/explain"
	"github.com/doeshing/clarify/internal/infrastructure/api"
	"github.com/doeshing/clarify/internal/infrastructure/config"
	"github.com/doeshing/clarify/internal/infrastructure/history"
	"github.com/doeshing/clarify/internal/infrastructure/session"
	"github.com/doeshing/clarify/internal/match"
	"github.com/doeshing/clarify/internal/pkg/logger"
	"github.com/doeshing/clarify/internal/ports"
	"github.com/doeshing/clarify/internal/ratelimit"
	"github.com/doeshing/clarify/internal/validate"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	ExplainService *explain.Service
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	HistoryStore   ports.HistoryRepository
	SessionStore   ports.SessionStore
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	historyStore := buildHistoryStore(cfg.History.Store, cfg.HistoryMax())
	sessionStore := session.NewFileStore("")

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequests: cfg.RateMaxRequests(),
		Window:      cfg.RateWindow(),
		Adaptive:    cfg.RateLimit.AdaptiveBackoff,
		BaseDelay:   cfg.BackoffBase(),
		MaxDelay:    cfg.BackoffMax(),
	})

	explainService := &explain.Service{
		ConfigProvider: cfgLoader,
		Provider:       api.NewProvider(cfg),
		Validator:      validate.TopicValidator{},
		Limiter:        limiter,
		History:        historyStore,
		Session:        sessionStore,
		Logger:         log,
	}

	return &Container{
		ExplainService: explainService,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		HistoryStore:   historyStore,
		SessionStore:   sessionStore,
		Logger:         log,
	}, nil
}

func buildHistoryStore(kind string, maxEntries int) ports.HistoryRepository {
	if kind == "file" {
		return history.NewFileStore("", maxEntries, match.Normalize)
	}
	return history.NewSQLiteStore("", maxEntries, match.Normalize)
}
