// Package upstream is the outbound HTTP client shared by the geocoding and
// routing clients. Every call is bounded by the client timeout.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/route-planner/internal/metrics"
	"go.uber.org/zap"
)

const maxErrorBody = 512

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

// Config configures a Client.
type Config struct {
	Name      string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client performs JSON GET requests against one upstream service.
type Client struct {
	name      string
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	logger    *zap.Logger
}

// NewClient creates a Client. A zero timeout falls back to 10 seconds.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		name:      cfg.Name,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		http:      &http.Client{Timeout: timeout},
		logger:    logger.With(zap.String("upstream", cfg.Name)),
	}
}

// Name returns the upstream name used in logs and metrics.
func (c *Client) Name() string { return c.name }

// GetJSON issues GET baseURL+path?query and decodes the JSON body into out.
// Transport failures, timeouts, non-2xx statuses and undecodable bodies are all
// returned as errors.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(c.name, "transport_error", time.Since(start))
		c.logger.Warn("Upstream request failed", zap.String("url", target), zap.Error(err))
		return fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.ObserveUpstream(c.name, "bad_status", time.Since(start))
		c.logger.Warn("Upstream returned non-success status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return &StatusError{Service: c.name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveUpstream(c.name, "decode_error", time.Since(start))
		c.logger.Warn("Upstream returned undecodable body", zap.String("url", target), zap.Error(err))
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}

	metrics.ObserveUpstream(c.name, "ok", time.Since(start))
	c.logger.Debug("Upstream request completed",
		zap.String("url", target),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
