package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the control-plane surface the monitor consumes.
type Client interface {
	ListTeams(ctx context.Context) ([]Team, error)
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	GetMessages(ctx context.Context, teamID string) ([]Message, error)
	SendChat(ctx context.Context, teamID string, req ChatRequest) (*ChatResponse, error)
	UpdateAgent(ctx context.Context, agentID string, req AgentUpdate) error
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, body)
}

// HTTPClient talks to the team control-plane REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client (for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.http.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPClient) ListTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := h.doJSON(ctx, http.MethodGet, "/teams", nil, &teams); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (h *HTTPClient) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	var team Team
	if err := h.doJSON(ctx, http.MethodGet, "/teams/"+url.PathEscape(teamID), nil, &team); err != nil {
		return nil, fmt.Errorf("get team %s: %w", teamID, err)
	}
	return &team, nil
}

func (h *HTTPClient) GetMessages(ctx context.Context, teamID string) ([]Message, error) {
	var msgs []Message
	if err := h.doJSON(ctx, http.MethodGet, "/teams/"+url.PathEscape(teamID)+"/messages", nil, &msgs); err != nil {
		return nil, fmt.Errorf("get messages for team %s: %w", teamID, err)
	}
	return msgs, nil
}

func (h *HTTPClient) SendChat(ctx context.Context, teamID string, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := h.doJSON(ctx, http.MethodPost, "/teams/"+url.PathEscape(teamID)+"/chat", req, &resp); err != nil {
		return nil, fmt.Errorf("send chat to team %s: %w", teamID, err)
	}
	return &resp, nil
}

func (h *HTTPClient) UpdateAgent(ctx context.Context, agentID string, req AgentUpdate) error {
	if err := h.doJSON(ctx, http.MethodPost, "/agents/"+url.PathEscape(agentID), req, nil); err != nil {
		return fmt.Errorf("update agent %s: %w", agentID, err)
	}
	return nil
}

func (h *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Debug("api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
