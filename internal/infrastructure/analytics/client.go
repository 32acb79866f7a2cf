// Package analytics talks to the analytics microservice, which owns the
// authoritative credit balance of every user.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/pkg/httpretry"
)

// ErrUpstream wraps any non-2xx answer from the analytics service.
var ErrUpstream = errors.New("analytics service error")

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client implements ports.BalanceProvider.
type Client struct {
	baseURL string
	apiKey  string
	http    httpretry.Doer
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpretry.New(&http.Client{Timeout: timeout}, cfg.MaxRetries, httpretry.WithLogger(log)),
		log:     log,
	}
}

type balanceResponse struct {
	Balance *float64 `json:"balance"`
}

// Balance fetches GET /api/credits/{userId}/balance. A 404 means the user has
// no credit account yet and is reported as domain.ErrNotFound.
func (c *Client) Balance(ctx context.Context, userID string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/credits/%s/balance", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build balance request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("user_id", userID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("analytics balance")

	if resp.StatusCode == http.StatusNotFound {
		return 0, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode balance: %v", ErrUpstream, err)
	}
	if out.Balance == nil {
		return 0, fmt.Errorf("%w: balance missing from response", ErrUpstream)
	}
	return *out.Balance, nil
}
