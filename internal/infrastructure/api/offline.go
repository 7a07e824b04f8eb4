package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

type offlineProvider struct{}

// NewOffline returns the local fallback provider used when no service
// endpoint is configured. It produces a short templated explanation so the
// full pipeline stays usable without connectivity.
func NewOffline() ports.Provider {
	return offlineProvider{}
}

func (offlineProvider) Name() string {
	return "offline"
}

func (offlineProvider) Explain(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	title := titleCase(req.Topic)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	switch req.Level {
	case domain.LevelSimple:
		fmt.Fprintf(&b, "%s is a concept worth knowing about. No explanation service is configured, so this is a placeholder summary.\n", title)
	case domain.LevelDetailed, domain.LevelExpert:
		fmt.Fprintf(&b, "No explanation service is configured, so only this offline outline for **%s** is available.\n\n", req.Topic)
		b.WriteString("- what it is and when it applies\n")
		b.WriteString("- how it works under the hood\n")
		b.WriteString("- common pitfalls and trade-offs\n\n")
		b.WriteString("Set `service.endpoint` in the config file to get real answers:\n\n")
		b.WriteString("```yaml\nservice:\n  endpoint: https://your-service.example/explain\n```\n")
	default:
		fmt.Fprintf(&b, "No explanation service is configured. To learn about **%s**, set `service.endpoint` in `~/.clarify/config.yaml`.\n", req.Topic)
	}

	return ports.ProviderResponse{Explanation: b.String()}, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 && runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

var _ ports.Provider = offlineProvider{}
