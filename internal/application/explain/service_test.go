package explain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s *stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type providerResult struct {
	resp ports.ProviderResponse
	err  error
}

type stubProvider struct {
	calls []ports.ProviderRequest
	queue []providerResult
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Explain(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	p.calls = append(p.calls, req)
	if len(p.queue) == 0 {
		return ports.ProviderResponse{Explanation: "stub explanation"}, nil
	}
	next := p.queue[0]
	p.queue = p.queue[1:]
	return next.resp, next.err
}

type stubValidator struct {
	err error
}

func (v *stubValidator) Validate(raw string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return strings.TrimSpace(raw), nil
}

type stubLimiter struct {
	decision domain.RateDecision
	recorded []bool
}

func (l *stubLimiter) Check() domain.RateDecision { return l.decision }
func (l *stubLimiter) Record(success bool)        { l.recorded = append(l.recorded, success) }

type stubHistory struct {
	entries   []domain.HistoryEntry
	saved     []domain.HistoryEntry
	recentErr error
}

func (h *stubHistory) Save(entry domain.HistoryEntry) error {
	h.saved = append(h.saved, entry)
	return nil
}

func (h *stubHistory) Recent(int) ([]domain.HistoryEntry, error) {
	return h.entries, h.recentErr
}

func (h *stubHistory) Search(string, int) ([]domain.HistoryEntry, error) { return nil, nil }
func (h *stubHistory) Clear() error                                      { return nil }
func (h *stubHistory) ExportJSON(string) error                           { return nil }
func (h *stubHistory) PruneOlderThan(int) error                          { return nil }
func (h *stubHistory) Path() string                                      { return "" }

type stubSession struct{ id string }

func (s *stubSession) Load() (domain.SessionState, error) { return domain.SessionState{}, nil }
func (s *stubSession) Save(domain.SessionState) error     { return nil }
func (s *stubSession) SessionID() string                  { return s.id }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type fixture struct {
	service  *Service
	provider *stubProvider
	limiter  *stubLimiter
	history  *stubHistory
}

func newFixture() *fixture {
	provider := &stubProvider{}
	limiter := &stubLimiter{}
	history := &stubHistory{}
	cfg := domain.Config{}
	cfg.Service.MaxAttempts = 3
	cfg.RateLimit.BaseDelayMS = 1
	cfg.RateLimit.MaxDelayMS = 2
	return &fixture{
		service: &Service{
			ConfigProvider: &stubConfig{cfg: cfg},
			Provider:       provider,
			Validator:      &stubValidator{},
			Limiter:        limiter,
			History:        history,
			Session:        &stubSession{id: "session-1"},
			Logger:         nopLogger{},
		},
		provider: provider,
		limiter:  limiter,
		history:  history,
	}
}

func TestRunRejectsMissingDependencies(t *testing.T) {
	s := &Service{}
	if _, err := s.Run(domain.ExplainRequest{Topic: "recursion"}); err == nil {
		t.Fatal("expected dependency error")
	}
}

func TestRunValidationFailureSkipsEverything(t *testing.T) {
	f := newFixture()
	f.service.Validator = &stubValidator{err: &domain.ValidationError{Reason: "too short"}}

	_, err := f.service.Run(domain.ExplainRequest{Topic: "x", Level: domain.LevelStudent})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(f.provider.calls) != 0 {
		t.Fatal("provider must not be called for invalid input")
	}
	if len(f.limiter.recorded) != 0 {
		t.Fatal("limiter must not record anything for invalid input")
	}
}

func TestRunRateLimitedBeforeNetwork(t *testing.T) {
	f := newFixture()
	f.limiter.decision = domain.RateDecision{Limited: true, Wait: 2 * time.Second}

	_, err := f.service.Run(domain.ExplainRequest{Topic: "recursion", Level: domain.LevelStudent})

	var rerr *domain.RateLimitedError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rerr.Wait != 2*time.Second {
		t.Fatalf("wait hint not propagated: %v", rerr.Wait)
	}
	if len(f.provider.calls) != 0 {
		t.Fatal("throttled request must not reach the provider")
	}
}

func TestRunCacheHitShortCircuits(t *testing.T) {
	f := newFixture()
	f.history.entries = []domain.HistoryEntry{{
		ID:          1,
		Topic:       "recursion",
		Level:       domain.LevelStudent,
		Explanation: "a function calling itself",
		Timestamp:   time.Now().Add(-time.Hour),
	}}

	resp, err := f.service.Run(domain.ExplainRequest{
		Topic: "What is recursion?",
		Level: domain.LevelStudent,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.FromCache {
		t.Fatal("expected a cache hit")
	}
	if resp.Explanation != "a function calling itself" {
		t.Fatalf("wrong explanation: %q", resp.Explanation)
	}
	if len(f.provider.calls) != 0 {
		t.Fatal("cache hit must not reach the provider")
	}
	if len(f.limiter.recorded) != 0 {
		t.Fatal("cache hit must not record against the limiter")
	}
	if len(f.history.saved) != 1 || !f.history.saved[0].Cached {
		t.Fatalf("cache hit should refresh the history entry: %+v", f.history.saved)
	}
}

func TestRunForceRefreshBypassesCache(t *testing.T) {
	f := newFixture()
	f.history.entries = []domain.HistoryEntry{{
		Topic:       "recursion",
		Level:       domain.LevelStudent,
		Explanation: "stale text",
		Timestamp:   time.Now(),
	}}

	resp, err := f.service.Run(domain.ExplainRequest{
		Topic:        "recursion",
		Level:        domain.LevelStudent,
		ForceRefresh: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FromCache {
		t.Fatal("force refresh must not serve from cache")
	}
	if len(f.provider.calls) != 1 {
		t.Fatalf("expected one provider call, got %d", len(f.provider.calls))
	}
	if !f.provider.calls[0].ForceRefresh {
		t.Fatal("force refresh flag must propagate to the provider")
	}
}

func TestRunRetriesOnRetryableServerError(t *testing.T) {
	f := newFixture()
	f.provider.queue = []providerResult{
		{err: &domain.ServerError{Status: 503, Message: "busy"}},
		{resp: ports.ProviderResponse{Explanation: "second time lucky", ResponseTimeMS: 12}},
	}

	resp, err := f.service.Run(domain.ExplainRequest{Topic: "goroutines", Level: domain.LevelDetailed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", resp.Attempts)
	}
	if resp.Explanation != "second time lucky" {
		t.Fatalf("wrong explanation: %q", resp.Explanation)
	}
	if len(f.limiter.recorded) != 2 || f.limiter.recorded[0] || !f.limiter.recorded[1] {
		t.Fatalf("limiter should see failure then success: %v", f.limiter.recorded)
	}
	if len(f.history.saved) != 1 || f.history.saved[0].Explanation != "second time lucky" {
		t.Fatalf("successful response must be saved: %+v", f.history.saved)
	}
	if f.provider.calls[0].Attempt != 1 || f.provider.calls[1].Attempt != 2 {
		t.Fatalf("attempt numbers must count up: %+v", f.provider.calls)
	}
}

func TestRunTimeoutIsTerminal(t *testing.T) {
	f := newFixture()
	f.provider.queue = []providerResult{
		{err: &domain.NetworkError{Err: context.DeadlineExceeded, Timeout: true}},
	}

	_, err := f.service.Run(domain.ExplainRequest{Topic: "channels", Level: domain.LevelSimple})

	var nerr *domain.NetworkError
	if !errors.As(err, &nerr) || !nerr.Timeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if len(f.provider.calls) != 1 {
		t.Fatalf("timeout must not retry, got %d calls", len(f.provider.calls))
	}
	if len(f.limiter.recorded) != 1 || f.limiter.recorded[0] {
		t.Fatalf("timeout must still record a failure: %v", f.limiter.recorded)
	}
}

func TestRunNonRetryableStatusIsTerminal(t *testing.T) {
	f := newFixture()
	f.provider.queue = []providerResult{
		{err: &domain.ServerError{Status: 400, Message: "bad topic"}},
	}

	_, err := f.service.Run(domain.ExplainRequest{Topic: "channels", Level: domain.LevelSimple})

	var serr *domain.ServerError
	if !errors.As(err, &serr) || serr.Status != 400 {
		t.Fatalf("expected 400 server error, got %v", err)
	}
	if len(f.provider.calls) != 1 {
		t.Fatalf("400 must not retry, got %d calls", len(f.provider.calls))
	}
}

func TestRunExhaustsAttemptBudget(t *testing.T) {
	f := newFixture()
	f.provider.queue = []providerResult{
		{err: &domain.ServerError{Status: 503, Message: "busy"}},
		{err: &domain.ServerError{Status: 503, Message: "busy"}},
		{err: &domain.ServerError{Status: 503, Message: "still busy"}},
	}

	_, err := f.service.Run(domain.ExplainRequest{Topic: "interfaces", Level: domain.LevelExpert})

	var serr *domain.ServerError
	if !errors.As(err, &serr) || serr.Message != "still busy" {
		t.Fatalf("expected the last attempt's error, got %v", err)
	}
	if len(f.provider.calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(f.provider.calls))
	}
	if len(f.limiter.recorded) != 3 {
		t.Fatalf("every attempt must be recorded: %v", f.limiter.recorded)
	}
}

func TestRunAppliesConfiguredDefaultLevel(t *testing.T) {
	f := newFixture()
	cfg := domain.Config{}
	cfg.Preferences.DefaultLevel = "expert"
	cfg.Service.MaxAttempts = 1
	f.service.ConfigProvider = &stubConfig{cfg: cfg}

	resp, err := f.service.Run(domain.ExplainRequest{Topic: "generics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Level != domain.LevelExpert {
		t.Fatalf("expected configured default level, got %s", resp.Level)
	}
	if f.provider.calls[0].Level != domain.LevelExpert {
		t.Fatalf("provider must receive the resolved level: %+v", f.provider.calls[0])
	}
	if f.provider.calls[0].SessionID != "session-1" {
		t.Fatalf("session id must propagate: %+v", f.provider.calls[0])
	}
}
