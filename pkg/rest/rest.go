// Copyright © 2025 CoReason, Inc.

// Package rest is a small JSON-over-HTTP client shared by the publisher's
// service adapters.
//
// Transport errors and server-side (5xx) responses are retried with bounded
// exponential backoff; client-side (4xx) responses fail permanently without
// retry. Timeouts apply per call, not per workflow.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coreason-ai/publisher/pkg/dlogger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 4
)

// Error is an HTTP response with a non-2xx status.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return http.StatusText(e.StatusCode)
	}
	return http.StatusText(e.StatusCode) + ": " + e.Body
}

// IsClientError tells whether the failure is a 4xx response, which is never
// retried and indicates a caller mistake rather than a service outage.
func IsClientError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

// Client issues JSON requests against one service base URL.
type Client struct {
	base       string
	hc         *http.Client
	headers    map[string]string
	l          *zap.Logger
	maxRetries uint64
	interval   time.Duration
}

// Option is a functor to pass optional parameters to the client
type Option func(*Client)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

// BearerToken authenticates requests with an Authorization bearer header
func BearerToken(token string) Option {
	return Header("Authorization", "Bearer "+token)
}

// Header sets a header on every request
func Header(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// Timeout overrides the per-call timeout
func Timeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// MaxRetries bounds the number of retries on transient failures
func MaxRetries(n uint64) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// RetryInterval sets the initial backoff interval between retries
func RetryInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// New builds a client for a service at base
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		hc:         &http.Client{Timeout: defaultTimeout},
		headers:    map[string]string{"Accept": "application/json"},
		l:          dlogger.MustGetLogger(dlogger.LogLevelInfo),
		maxRetries: defaultMaxRetries,
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// Get issues a GET request and decodes the JSON response into out (which
// may be nil to discard the body).
func (c *Client) Get(ctx context.Context, pth string, out interface{}) error {
	return c.do(ctx, http.MethodGet, pth, nil, out)
}

// Post issues a POST request with a JSON payload and decodes the JSON
// response into out (either may be nil).
func (c *Client) Post(ctx context.Context, pth string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPost, pth, payload, out)
}

// Put issues a PUT request with a JSON payload and decodes the JSON
// response into out (either may be nil).
func (c *Client) Put(ctx context.Context, pth string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPut, pth, payload, out)
}

func (c *Client) do(ctx context.Context, method, pth string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	operation := func() error {
		return c.once(ctx, method, pth, body, out)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(c.newExponential(), c.maxRetries),
		ctx,
	)
	return backoff.Retry(operation, policy)
}

func (c *Client) newExponential() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.interval > 0 {
		b.InitialInterval = c.interval
	}
	return b
}

func (c *Client) once(ctx context.Context, method, pth string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+pth, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.l.Warn("request failed, will retry",
			zap.String("method", method),
			zap.String("path", pth),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		if resp.StatusCode < 500 {
			// caller mistakes are not retried
			return backoff.Permanent(apiErr)
		}
		c.l.Warn("server error, will retry",
			zap.String("method", method),
			zap.String("path", pth),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(err)
	}
	return nil
}
