package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-market-cache/internal/config"
	"go-market-cache/internal/metrics"
	"go-market-cache/internal/scheduler"
	"go-market-cache/internal/utils"
)

const (
	maxResponseBytes = 16 << 20
	pingPath         = "/ping"
)

// Client performs GET requests against the market-data API
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	headers    http.Header
	retries    int
	baseDelay  time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
	// maxBody caps the size of a response body
	maxBody int64
}

// NewClient creates a transport from the market API configuration
func NewClient(cfg config.MarketAPIConfig, logger *zap.Logger) *Client {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		header := cfg.APIKeyHeader
		if header == "" {
			header = config.DefaultAPIKeyHeader
		}
		headers.Set(header, cfg.APIKey)
	}
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Transport: transport},
		timeout:    cfg.Timeout,
		headers:    headers,
		retries:    cfg.RateLimitRetries,
		baseDelay:  cfg.RateLimitBaseDelay,
		limiter:    limiter,
		logger:     logger,
		maxBody:    maxResponseBytes,
	}
}

// Get fetches path with params and returns the raw response body.
// HTTP 429 is retried with exponential backoff, everything else is surfaced immediately.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	path = utils.NormalizePath(path)
	endpoint := utils.EndpointPattern(path)
	target := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	for attempt := 0; ; attempt++ {
		body, err := c.attempt(ctx, target, endpoint)
		if err == nil {
			return body, nil
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || !httpErr.RateLimited() || attempt >= c.retries {
			return nil, err
		}

		delay := backoffDelay(c.baseDelay, attempt)
		metrics.RecordUpstreamRetry(endpoint)
		c.logger.Warn("Market API rate limited, backing off",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay))

		if err := scheduler.Sleep(ctx, delay); err != nil {
			return nil, &NetworkError{Op: "GET " + path, Err: err}
		}
	}
}

// Ping checks that the API is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, pingPath, nil)
	return err
}

func (c *Client) attempt(ctx context.Context, target, endpoint string) ([]byte, error) {
	op := "GET " + endpoint

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Op: op, Err: err}
		}
	}

	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header = c.headers.Clone()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		netErr := c.networkError(ctx, attemptCtx, op, err)
		metrics.RecordUpstreamRequest(endpoint, metrics.CategorizeError(netErr), time.Since(start))
		c.logger.Debug("Market API request failed",
			zap.String("endpoint", endpoint),
			zap.Bool("timeout", netErr.TimedOut),
			zap.Error(err))
		return nil, netErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		netErr := c.networkError(ctx, attemptCtx, op, err)
		metrics.RecordUpstreamRequest(endpoint, metrics.CategorizeError(netErr), time.Since(start))
		return nil, netErr
	}
	if int64(len(body)) > c.maxBody {
		tooLarge := &ResponseTooLargeError{Op: op, Limit: c.maxBody}
		metrics.RecordUpstreamRequest(endpoint, metrics.CategorizeError(tooLarge), time.Since(start))
		c.logger.Warn("Market API response exceeds size limit",
			zap.String("endpoint", endpoint),
			zap.Int64("limit", c.maxBody))
		return nil, tooLarge
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		httpErr := &HTTPError{Status: resp.StatusCode, Body: body}
		metrics.RecordUpstreamRequest(endpoint, metrics.CategorizeError(httpErr), time.Since(start))
		c.logger.Debug("Market API returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, httpErr
	}

	metrics.RecordUpstreamRequest(endpoint, metrics.NoError, time.Since(start))
	c.logger.Debug("Market API request succeeded",
		zap.String("endpoint", endpoint),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))
	return body, nil
}

// networkError wraps err, telling a per-attempt timeout apart from caller cancellation
func (c *Client) networkError(parent, attemptCtx context.Context, op string, err error) *NetworkError {
	if parent.Err() != nil {
		return &NetworkError{Op: op, TimedOut: errors.Is(parent.Err(), context.DeadlineExceeded), Err: parent.Err()}
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &NetworkError{Op: op, TimedOut: true, Err: context.DeadlineExceeded}
	}
	var timeout interface{ Timeout() bool }
	timedOut := errors.As(err, &timeout) && timeout.Timeout()
	return &NetworkError{Op: op, TimedOut: timedOut, Err: err}
}
