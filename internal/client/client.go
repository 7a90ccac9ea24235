// Package client talks to a running teambadge HTTP service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/teambadge/internal/domain/types"
)

const defaultTimeout = 30 * time.Second

// Client wraps http.Client with the service base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is a non-2xx reply.
type StatusError struct {
	StatusCode int
	Response   types.ErrorResponse
}

func (e *StatusError) Error() string {
	msg := e.Response.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, msg)
}

// SubmitRun posts a run. teams must be a JSON array of team records.
func (c *Client) SubmitRun(ctx context.Context, runID, ruleset string, teams []byte) (types.RunResponse, error) {
	body, err := json.Marshal(types.RunRequest{RunID: runID, Ruleset: ruleset, Teams: teams})
	if err != nil {
		return types.RunResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	var resp types.RunResponse
	if err := c.do(ctx, http.MethodPost, "/runs", body, &resp); err != nil {
		return types.RunResponse{}, err
	}
	return resp, nil
}

// Classify posts a document and returns the annotated document as sent by
// the server.
func (c *Client) Classify(ctx context.Context, ruleset string, document []byte) ([]byte, error) {
	path := "/classify"
	if ruleset != "" {
		path += "?ruleset=" + url.QueryEscape(ruleset)
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, document, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// TeamBadges returns a team's latest stored badges.
func (c *Client) TeamBadges(ctx context.Context, team string) (types.TeamBadges, error) {
	var tb types.TeamBadges
	if err := c.do(ctx, http.MethodGet, "/teams/"+url.PathEscape(team), nil, &tb); err != nil {
		return types.TeamBadges{}, err
	}
	return tb, nil
}

// Distribution returns the summary of the latest stored run.
func (c *Client) Distribution(ctx context.Context) (types.DistributionResponse, error) {
	var d types.DistributionResponse
	if err := c.do(ctx, http.MethodGet, "/distribution", nil, &d); err != nil {
		return types.DistributionResponse{}, err
	}
	return d, nil
}

// Health checks that the service answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, &se.Response)
		return se
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
