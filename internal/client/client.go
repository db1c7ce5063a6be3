// Package client talks to the shopping list server's tool endpoints.
//
// The agent runs in its own process and reaches the data only through
// GET /tools and POST /tools/{name}.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout        = 15 * time.Second
	errorBodyLimit  int64 = 4096
)

var errBaseURLRequired = errors.New("shopping api base url is required")

// Tool is one entry of the server's tool catalog. The schema is kept raw so
// callers can hand it to an LLM API unchanged.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status   int
	Kind     string // "validation_error", "not_found", ...
	Message  string
	Resource string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shopping api: status %d", e.Status)
	}
	return fmt.Sprintf("shopping api: %s (status %d)", e.Message, e.Status)
}

// Client calls the tool endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New builds a client for the server at baseURL (e.g. http://localhost:8000).
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid shopping api url %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// ListTools fetches the tool catalog.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	body, err := c.do(ctx, http.MethodGet, "/tools", nil)
	if err != nil {
		return nil, err
	}

	var tools []Tool
	if err := json.Unmarshal(body, &tools); err != nil {
		return nil, fmt.Errorf("decode tool catalog: %w", err)
	}
	return tools, nil
}

// CallTool invokes one tool and returns its JSON result. A server-side
// failure comes back as *APIError.
func (c *Client) CallTool(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage("{}")
	}
	return c.do(ctx, http.MethodPost, "/tools/"+url.PathEscape(name), input)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return out, nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error    string `json:"error"`
		Message  string `json:"message"`
		Resource string `json:"resource"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Kind = body.Error
		apiErr.Message = body.Message
		apiErr.Resource = body.Resource
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
