// Package apifootball is a small client for the API-Football v3 provider,
// used to fetch the real outcome of a fixture.
package apifootball

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL        = "https://v3.football.api-sports.io"
	DefaultTimeout        = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultRequestsPerSec = 5

	apiKeyHeader = "x-apisports-key"
)

// ErrMissingAPIKey is returned before any request when no key is configured
var ErrMissingAPIKey = errors.New("api key not configured")

// APIError is reported by the provider inside a 200 response
type APIError struct {
	Endpoint string
	Details  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider error on %s: %s", e.Endpoint, e.Details)
}

// HTTPStatusError represents a non-200 HTTP status code
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d", e.StatusCode)
}

// Retryable reports whether the status is worth another attempt
func (e *HTTPStatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ClientConfig holds options for creating a new Client
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RequestsPerSec int
	Logger         *zerolog.Logger
	HTTPClient     *http.Client

	// InitialInterval is the first backoff wait, mainly lowered by tests
	InitialInterval time.Duration
}

// Client is a rate limited, retrying API-Football client
type Client struct {
	baseURL         string
	apiKey          string
	maxRetries      int
	initialInterval time.Duration
	httpClient      *http.Client
	limiter         *rate.Limiter
	log             zerolog.Logger
}

// NewClient creates a client, filling unset options with defaults
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		cfg.BaseURL = "https://" + cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = DefaultRequestsPerSec
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := log.With().Str("component", "apifootball").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		httpClient:      httpClient,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec),
		log:             logger,
	}
}

// envelope is the wrapper every API-Football response comes in
type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

// get calls endpoint and decodes the envelope's response field into out.
// 5xx, 429 and transport errors are retried, everything else is permanent.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set(apiKeyHeader, c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode}
			if statusErr.Retryable() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", endpoint, err))
		}
		if details := providerErrors(env.Errors); details != "" {
			return backoff.Permanent(&APIError{Endpoint: endpoint, Details: details})
		}
		if out == nil || len(env.Response) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Response, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", endpoint, err))
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = c.initialInterval
	strategy.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(strategy, uint64(c.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.log.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("provider call failed, retrying")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return err
	}
	return nil
}

// providerErrors flattens the errors field, which the provider sends as an
// empty list when there is nothing to report and as an object otherwise
func providerErrors(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "[]", "{}":
		return ""
	}

	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		parts := make([]string, 0, len(byField))
		for field, msg := range byField {
			parts = append(parts, field+": "+msg)
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return trimmed
}

func fixtureParams(key string, fixtureID int64) url.Values {
	params := url.Values{}
	params.Set(key, strconv.FormatInt(fixtureID, 10))
	return params
}
