// Package client talks to the docassist backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/liliang-cn/docassist/internal/domain"
)

// Client is an HTTP backend client
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL.
// A zero timeout means no timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Stats returns the number of indexed sections
func (c *Client) Stats(ctx context.Context) (*domain.StatsResponse, error) {
	var resp domain.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reload asks the backend to relearn the documentation folder
func (c *Client) Reload(ctx context.Context) (*domain.ReloadResponse, error) {
	var resp domain.ReloadResponse
	if err := c.do(ctx, http.MethodPost, "/api/reload", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ask submits a question
func (c *Client) Ask(ctx context.Context, question string) (*domain.AskResponse, error) {
	var resp domain.AskResponse
	if err := c.do(ctx, http.MethodPost, "/api/ask", domain.AskRequest{Question: question}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one round trip. The body is decoded whatever the status code,
// since the backend reports application failures in the payload.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response (status %s): %w", path, resp.Status, err)
	}
	return nil
}
