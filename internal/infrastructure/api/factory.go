package api

import (
	"net/http"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

// NewProvider picks the provider for the given configuration: the HTTP
// client when an endpoint is set, the offline fallback otherwise. Per-attempt
// deadlines come from the request context; the client timeout is only a
// safety net.
func NewProvider(cfg domain.Config) ports.Provider {
	if cfg.Service.Endpoint == "" {
		return NewOffline()
	}
	return NewClient(cfg.Service.Endpoint, cfg.Service.AuthEnvVar, &http.Client{
		Timeout: 60 * time.Second,
	})
}
