package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

func TestExplainSendsExpectedPayload(t *testing.T) {
	var got explainPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("authorization"); auth != "Bearer secret-token" {
			t.Errorf("missing bearer token, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		json.NewEncoder(w).Encode(explainReply{Explanation: "an answer", TokenCount: 42})
	}))
	defer server.Close()
	t.Setenv("TEST_API_KEY", "secret-token")

	client := NewClient(server.URL, "TEST_API_KEY", server.Client())
	resp, err := client.Explain(context.Background(), ports.ProviderRequest{
		Topic:        "recursion",
		Level:        domain.LevelStudent,
		ForceRefresh: true,
		SessionID:    "session-1",
		Attempt:      2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Explanation != "an answer" || resp.TokenCount != 42 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ResponseTimeMS <= 0 {
		t.Fatalf("elapsed time should be filled in: %+v", resp)
	}
	if got.Topic != "recursion" || got.Level != "student" || !got.ForceRefresh ||
		got.UserSession != "session-1" || got.Attempt != 2 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestExplainMapsStatusToServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(explainReply{Error: "overloaded"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", server.Client()).Explain(context.Background(), ports.ProviderRequest{Topic: "maps"})

	var serr *domain.ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serr.Status != http.StatusServiceUnavailable || serr.Message != "overloaded" {
		t.Fatalf("unexpected server error: %+v", serr)
	}
	if !serr.Retryable() {
		t.Fatal("503 must be retryable")
	}
}

func TestExplainTimeoutMapsToNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only watches for client disconnects once the request
		// body has been consumed; without this drain Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(server.URL, "", server.Client()).Explain(ctx, ports.ProviderRequest{Topic: "maps"})

	var nerr *domain.NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !nerr.Timeout {
		t.Fatalf("deadline exceeded must flag a timeout: %+v", nerr)
	}
}

func TestExplainRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", server.Client()).Explain(context.Background(), ports.ProviderRequest{Topic: "maps"})

	var ferr *domain.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestExplainRejectsEmptyExplanation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(explainReply{Explanation: "   "})
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", server.Client()).Explain(context.Background(), ports.ProviderRequest{Topic: "maps"})

	var ferr *domain.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError for blank explanation, got %v", err)
	}
}

func TestFactorySelectsProvider(t *testing.T) {
	offline := NewProvider(domain.Config{})
	if offline.Name() != "offline" {
		t.Fatalf("empty endpoint should pick offline, got %s", offline.Name())
	}

	cfg := domain.Config{}
	cfg.Service.Endpoint = "https://svc.example/explain"
	remote := NewProvider(cfg)
	if remote.Name() != "remote" {
		t.Fatalf("configured endpoint should pick remote, got %s", remote.Name())
	}
}
