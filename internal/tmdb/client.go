// Package tmdb is the HTTP gateway to a TMDB-compatible catalog API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"

	DefaultTimeout = 15 * time.Second
	userAgent      = "Marquee/1.0"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Token             string // API read access token, sent as a bearer token
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables rate limiting
	Burst             int
	BreakerFailures   uint32 // Consecutive failures before the breaker opens; 0 disables it
	BreakerCooldown   time.Duration
}

// Client implements domain.Gateway for the TMDB v3 API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}

	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(opts.Burst, 1))
	}

	if opts.BreakerFailures > 0 {
		c.breaker = newBreaker(opts.BreakerFailures, opts.BreakerCooldown, logger)
	}

	return c
}

func newBreaker(failures uint32, cooldown time.Duration, logger *slog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A rejected token or a cancelled request says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrAuthFailed) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// FetchPage implements domain.Gateway
func (c *Client) FetchPage(ctx context.Context, endpoint string, params domain.Params) (*domain.PageResult, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	body, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	var resp PageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "endpoint", endpoint, "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: failed to parse response: %w", domain.ErrNetwork, err)
	}

	requested, _ := strconv.Atoi(params["page"])
	return MapPage(&resp, KindHint(endpoint), requested), nil
}

// FetchDocument implements domain.DocumentGateway
func (c *Client) FetchDocument(ctx context.Context, endpoint string, params domain.Params) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return c.get(ctx, endpoint, query)
}

// Verify checks that the configured token is accepted
func (c *Client) Verify(ctx context.Context) error {
	body, err := c.get(ctx, "/authentication", nil)
	if err != nil {
		return err
	}
	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("%w: failed to parse response: %w", domain.ErrNetwork, err)
	}
	if status.Success != nil && !*status.Success {
		return domain.ErrAuthFailed
	}
	return nil
}

// get runs a request through the rate limiter and circuit breaker
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrNetwork, err)
		}
	}

	if c.breaker == nil {
		return c.doRequest(ctx, path, query)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, path, query)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn("request rejected by circuit breaker", "path", path)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	return body, err
}

// doRequest performs an authenticated GET request
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("tmdb request", "path", path, "query", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, context.Canceled)
		}
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetwork, resp.StatusCode)
	}

	return body, nil
}
