// Package github wraps the small slice of the GitHub REST API the
// platform needs: resolving an OAuth access token to the user it belongs
// to.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Account is the subset of the GitHub user payload the platform uses.
type Account struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Provider resolves access tokens to GitHub accounts. Faked in tests.
type Provider interface {
	FetchUser(ctx context.Context, accessToken string) (*Account, error)
}

// Client is the live Provider against api.github.com.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Provider hitting the real GitHub API.
func NewClient() *Client {
	return &Client{
		baseURL: "https://api.github.com",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub
// server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FetchUser(ctx context.Context, accessToken string) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build github request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github rejected the token: status %d", resp.StatusCode)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode github user: %w", err)
	}
	if account.Login == "" {
		return nil, fmt.Errorf("github user payload missing login")
	}
	return &account, nil
}
