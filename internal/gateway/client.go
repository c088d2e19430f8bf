package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

const (
	queryDataPath     = "/query-data"
	defaultTimeout    = 60 * time.Second
	maxErrorBodyBytes = 64 << 10
)

// Config holds the connection settings for the extraction API.
type Config struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerCooldown    time.Duration
}

// Querier runs extraction queries against a page.
type Querier interface {
	QueryDataWithPrompt(ctx context.Context, pageURL, prompt string, params Params) (any, error)
}

// Client posts queries to the AgentQL REST API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewClient builds a client. A nil httpClient gets one bounded by cfg.Timeout.
func NewClient(httpClient *http.Client, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "agentql",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// caller mistakes (bad url, bad key) say nothing about upstream health
			var gwErr *GatewayError
			if errors.As(err, &gwErr) && gwErr.StatusCode >= 400 && gwErr.StatusCode < 500 && gwErr.StatusCode != http.StatusTooManyRequests {
				return true
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		breaker: breaker,
		logger:  logger,
	}
}

// QueryDataWithPrompt extracts data from pageURL using a natural-language prompt
// and returns the decoded "data" section.
func (c *Client) QueryDataWithPrompt(ctx context.Context, pageURL, prompt string, params Params) (any, error) {
	return c.query(ctx, map[string]any{
		"url":    pageURL,
		"prompt": prompt,
		"params": params,
	})
}

// QueryData extracts data from pageURL using an AgentQL query expression.
func (c *Client) QueryData(ctx context.Context, pageURL, query string, params Params) (any, error) {
	return c.query(ctx, map[string]any{
		"url":    pageURL,
		"query":  query,
		"params": params,
	})
}

func (c *Client) query(ctx context.Context, payload map[string]any) (any, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.post(ctx, queryDataPath, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &GatewayError{Message: "AgentQL API temporarily unavailable", Err: err}
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Message: "failed to create AgentQL request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: "AgentQL API request failed", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("agentql response", "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    "AgentQL API request failed: " + readErrorBody(resp.Body),
		}
	}

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, newProtocolError(resp.StatusCode, "could not decode AgentQL response", err)
	}
	data, ok := envelope["data"]
	if !ok || data == nil {
		return nil, newProtocolError(resp.StatusCode, "Invalid response format from AgentQL API", nil)
	}
	return data, nil
}

func readErrorBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return "empty response body"
	}
	return strings.TrimSpace(string(data))
}

var _ Querier = (*Client)(nil)
