package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/swr"
)

const (
	localBaseURL      = "http://localhost:8080/api/v1"
	productionBaseURL = "https://api.wintersofcode.dev/api/v1"
)

// TokenStore supplies the session token, if any. An empty string means
// the request is sent unauthenticated.
type TokenStore interface {
	Token() string
}

// StaticToken is a TokenStore holding a fixed token.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client talks to the Winter of Code REST API. Leaderboard reads go
// through a stale-while-revalidate cache so repeated calls within the
// fresh window never hit the network.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	cache   *swr.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides base URL resolution entirely.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenStore attaches a token source for authenticated calls.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithCacheOptions replaces the leaderboard cache settings.
func WithCacheOptions(opts swr.Options) Option {
	return func(c *Client) { c.cache = swr.New(opts) }
}

// New builds a Client. The base URL is resolved in order: WithBaseURL
// option, WOC_API_URL environment variable, then a hostname heuristic
// that picks localhost during development.
func New(opts ...Option) *Client {
	c := &Client{
		http:  &http.Client{Timeout: 15 * time.Second},
		cache: swr.New(swr.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = resolveBaseURL()
	}
	return c
}

func resolveBaseURL() string {
	if u := os.Getenv("WOC_API_URL"); u != "" {
		return u
	}
	host, err := os.Hostname()
	if err == nil && (host == "localhost" || host == "127.0.0.1") {
		return localBaseURL
	}
	return productionBaseURL
}

// BaseURL reports the resolved API root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiErrorFrom(resp *http.Response) error {
	apiErr := &ApiError{Status: resp.StatusCode}
	var envelope models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
