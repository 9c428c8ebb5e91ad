package api

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

	"go.uber.org/zap"
)

// Doer defines the http.Client interface subset the client needs.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the forecastio backend. Every call is a plain
// request/response round trip: no retries, no caching.
type Client struct {
	baseURL string
	client  Doer
	logger  *zap.Logger

	now func() time.Time
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, client Doer, logger *zap.Logger) *Client {
	if client == nil {
		client = NewDefaultHTTPClient(10 * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
}

// NewDefaultHTTPClient returns an *http.Client with a request timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// do executes an authenticated JSON round trip. It refuses to run without a
// credential so no request ever leaves a logged-out session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in, out interface{}) error {
	if strings.TrimSpace(token) == "" {
		return ErrNotAuthenticated
	}
	return c.send(ctx, method, path, query, token, in, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, token string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s response: %w", path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("api: decode %s response: %w", path, err)
		}
	}
	return nil
}
