// Package api is the resilient request layer for the portal backend. It
// normalizes transport failures, decides retry eligibility, computes backoff,
// and tracks in-flight requests for the global loading indicator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/osamhq/portal/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// CredentialProvider supplies the bearer token attached to outgoing
// requests. An empty token means the call goes out anonymous. Token storage
// and refresh are the provider's business, not this layer's.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// Config holds client settings.
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	// RateLimit caps outgoing requests per second. 0 = unlimited.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// Client issues HTTP calls against the portal API. Every failure it returns
// is a *Error; callers never see the raw transport error type.
type Client struct {
	base      *url.URL
	http      *http.Client
	creds     CredentialProvider
	loading   *LoadingTracker
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a client. creds and loading may be nil for anonymous,
// untracked use.
func NewClient(cfg Config, creds CredentialProvider, loading *LoadingTracker) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		base:      base,
		creds:     creds,
		loading:   loading,
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Loading exposes the tracker this client reports to. May be nil.
func (c *Client) Loading() *LoadingTracker {
	return c.loading
}

// CallOptions tune a single call.
type CallOptions struct {
	// Query is appended to the request URL.
	Query url.Values
	// Label names the call in logs and the loading tracker.
	Label string
	// Untracked suppresses loading-indicator tracking for this call.
	Untracked bool
}

// Do performs exactly one HTTP round trip. body, when non-nil, is JSON
// encoded. On success the response payload is returned verbatim; on failure
// the error is always a *Error.
//
// The loading tracker is started before dispatch and stopped exactly once on
// every exit path, including failures before the request is built.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts *CallOptions) ([]byte, error) {
	if opts == nil {
		opts = &CallOptions{}
	}
	if !opts.Untracked && c.loading != nil {
		c.loading.Start(opts.Label)
		defer c.loading.Stop()
	}
	return c.roundTrip(ctx, method, path, body, opts)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, opts *CallOptions) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classifyTransport(err)
		}
	}

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: genericMessage, Err: fmt.Errorf("encode request body: %w", err)}
		}
		rd = bytes.NewReader(data)
	}

	u := c.base.JoinPath(path)
	if len(opts.Query) > 0 {
		u.RawQuery = opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, &Error{Message: genericMessage, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, &Error{
				StatusCode: http.StatusUnauthorized,
				Message:    messageForStatus(http.StatusUnauthorized),
				Err:        err,
			}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RequestLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		apiErr := classifyTransport(err)
		metrics.RequestErrors.WithLabelValues(method, apiErr.Class()).Inc()
		return nil, apiErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := classifyTransport(err)
		metrics.RequestErrors.WithLabelValues(method, apiErr.Class()).Inc()
		return nil, apiErr
	}

	if resp.StatusCode >= 400 {
		apiErr := classifyResponse(resp.StatusCode, resp.Header, payload)
		metrics.RequestErrors.WithLabelValues(method, apiErr.Class()).Inc()
		return nil, apiErr
	}
	return payload, nil
}

// Get performs a GET and decodes the JSON payload into T.
func Get[T any](ctx context.Context, c *Client, path string, opts *CallOptions) (T, error) {
	return decode[T](c.Do(ctx, http.MethodGet, path, nil, opts))
}

// Post performs a POST with a JSON body and decodes the payload into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts *CallOptions) (T, error) {
	return decode[T](c.Do(ctx, http.MethodPost, path, body, opts))
}

// Put performs a PUT with a JSON body and decodes the payload into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts *CallOptions) (T, error) {
	return decode[T](c.Do(ctx, http.MethodPut, path, body, opts))
}

func decode[T any](payload []byte, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, &Error{Message: genericMessage, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}
