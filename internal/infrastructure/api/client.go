// Package api talks to the remote explanation service and provides the
// offline fallback used when no endpoint is configured.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

// Client is the HTTP adapter for the explanation service.
type Client struct {
	endpoint   string
	authEnvVar string
	httpClient *http.Client
}

// NewClient builds a client for the given endpoint. The bearer token is read
// from authEnvVar at request time so credential rotation needs no restart.
func NewClient(endpoint, authEnvVar string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{endpoint: endpoint, authEnvVar: authEnvVar, httpClient: httpClient}
}

func (c *Client) Name() string {
	return "remote"
}

type explainPayload struct {
	Topic        string `json:"topic"`
	Level        string `json:"level"`
	ForceRefresh bool   `json:"force_refresh"`
	UserSession  string `json:"user_session"`
	Attempt      int    `json:"attempt"`
}

type explainReply struct {
	Explanation    string `json:"explanation"`
	Error          string `json:"error"`
	Cached         bool   `json:"cached"`
	ResponseTimeMS int64  `json:"response_time_ms"`
	TokenCount     int    `json:"token_count"`
}

// Explain implements ports.Provider. Transport failures map to NetworkError,
// non-2xx statuses to ServerError and unusable bodies to FormatError, so the
// retry loop can tell them apart.
func (c *Client) Explain(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	payload, err := json.Marshal(explainPayload{
		Topic:        req.Topic,
		Level:        string(req.Level),
		ForceRefresh: req.ForceRefresh,
		UserSession:  req.SessionID,
		Attempt:      req.Attempt,
	})
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	if c.authEnvVar != "" {
		if token := os.Getenv(c.authEnvVar); token != "" {
			httpReq.Header.Set("authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, &domain.NetworkError{
			Err:     err,
			Timeout: errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err),
		}
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return ports.ProviderResponse{}, &domain.NetworkError{Err: err}
	}

	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, &domain.ServerError{
			Status:  resp.StatusCode,
			Message: errorMessage(body.Bytes(), resp.Status),
		}
	}

	var reply explainReply
	if err := json.Unmarshal(body.Bytes(), &reply); err != nil {
		return ports.ProviderResponse{}, &domain.FormatError{Reason: "invalid json body", Err: err}
	}
	if reply.Error != "" {
		return ports.ProviderResponse{}, &domain.ServerError{Status: resp.StatusCode, Message: reply.Error}
	}
	if strings.TrimSpace(reply.Explanation) == "" {
		return ports.ProviderResponse{}, &domain.FormatError{Reason: "response carries no explanation"}
	}

	elapsed := time.Since(started).Milliseconds()
	if reply.ResponseTimeMS == 0 {
		reply.ResponseTimeMS = elapsed
	}
	return ports.ProviderResponse{
		Explanation:    reply.Explanation,
		Cached:         reply.Cached,
		ResponseTimeMS: reply.ResponseTimeMS,
		TokenCount:     reply.TokenCount,
	}, nil
}

// errorMessage prefers the service's structured error field, falling back to
// the raw body or HTTP status line.
func errorMessage(body []byte, status string) string {
	var reply explainReply
	if err := json.Unmarshal(body, &reply); err == nil && reply.Error != "" {
		return reply.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return status
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

var _ ports.Provider = (*Client)(nil)
