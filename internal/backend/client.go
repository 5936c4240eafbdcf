// Package backend is the HTTP client for the analytics server's REST API.
//
// A Client is immutable after construction. Per-invocation credentials are
// handled by deriving a child client with WithToken rather than mutating a
// shared one, so concurrent invocations carrying different API keys can
// never observe each other's credential.
package backend

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

	"github.com/statbridge/statbridge/internal/directory"
)

// apiKeyHeader carries the credential on every outbound request.
const apiKeyHeader = "X-API-Key"

// Config holds the settings needed to construct a Client.
type Config struct {
	// BaseURL is the root URL of the analytics server.
	BaseURL string

	// APIKey is the session-level credential. May be empty; per-call
	// credentials are bound with WithToken.
	APIKey string

	// Timeout applies to each request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Client issues authenticated requests against the analytics server.
// Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New creates a Client from the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: BaseURL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// WithToken returns a derived client bound to the given API key. The
// receiver is unchanged; the underlying http.Client (and its timeout) is
// shared, which is safe because http.Client is itself concurrency-safe.
func (c *Client) WithToken(token string) *Client {
	derived := *c
	derived.apiKey = token
	return &derived
}

// Token returns the API key this client is bound to ("" if none).
func (c *Client) Token() string {
	return c.apiKey
}

// Get issues a GET request and decodes the JSON response into dest.
func (c *Client) Get(ctx context.Context, path string, params url.Values, dest any) error {
	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	return c.do(req, dest)
}

// Post issues a POST request with a JSON body and decodes the response.
func (c *Client) Post(ctx context.Context, path string, body any, dest any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("backend: marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// No response received at all. StatusCode 0 keeps this
		// distinguishable from an error status the backend sent.
		return &Error{Message: fmt.Sprintf("%s %s: %v", req.Method, req.URL.Path, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return normalizeError(resp.StatusCode, bodyBytes)
	}

	if resp.StatusCode == http.StatusNoContent || dest == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, dest); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

// errorEnvelope is the server's standard error response shape.
type errorEnvelope struct {
	Error string `json:"error"`
}

func normalizeError(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		e.Message = envelope.Error
	} else {
		e.Message = http.StatusText(statusCode)
		e.BodyPreview = truncate(string(body), bodyPreviewLimit)
	}
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// ---------------------------------------------------------------------------
// Typed endpoints used by the pipeline itself
// ---------------------------------------------------------------------------

type appsResponse struct {
	Apps []directory.App `json:"apps"`
}

// ListApps returns the apps visible to this client's API key. This is the
// fetch behind the tenant directory cache.
func (c *Client) ListApps(ctx context.Context) ([]directory.App, error) {
	var resp appsResponse
	if err := c.Get(ctx, "/api/v1/apps", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Apps, nil
}

type pluginsResponse struct {
	Plugins []string `json:"plugins"`
}

// ListPlugins returns the names of plugins installed on the backend. This is
// the fetch behind the plugin-availability cache.
func (c *Client) ListPlugins(ctx context.Context) ([]string, error) {
	var resp pluginsResponse
	if err := c.Get(ctx, "/api/v1/plugins", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Plugins, nil
}
