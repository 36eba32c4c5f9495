// Package httpclient performs the GET requests made against the package indices.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
)

const (
	// AcceptJSON is the Accept header value for JSON APIs.
	AcceptJSON = "application/json"

	// AcceptHTML is the Accept header value for HTML pages.
	AcceptHTML = "text/html"
)

// StatusError is returned when the upstream answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code %d", e.StatusCode)
}

// Is reports ErrUpstreamStatus for every status, and ErrPackageNotFound for 404.
func (e *StatusError) Is(target error) bool {
	switch target {
	case errors.ErrUpstreamStatus:
		return true
	case errors.ErrPackageNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// DecodeError is returned when a response body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{errors.ErrUpstreamParse, e.Err}
}

// Client sends identified, time-bounded GET requests.
// New should be used to create instances of Client.
type Client struct {
	http        *http.Client
	userAgent   string
	maxBodySize int64
	logger      hclog.Logger
}

// New creates a Client.
func New(logger hclog.Logger, opts ...Option) (*Client, error) {
	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	hc := options.httpClient
	if hc == nil {
		hc = newHTTPClient(options.timeout)
	}

	return &Client{
		http:        hc,
		userAgent:   options.userAgent,
		maxBodySize: options.maxBodySize,
		logger:      logger.Named("http"),
	}, nil
}

// UserAgent returns the User-Agent header the client sends.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get fetches url and returns the body of a 200 response.
func (c *Client) Get(ctx context.Context, url string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request URL '%s': %w", errors.ErrBadRequest, url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: %w", errors.ErrUpstreamUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("Request complete", "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed reading response from '%s': %w", errors.ErrUpstreamUnavailable, url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, &DecodeError{URL: url, Err: fmt.Errorf("response exceeds %d bytes", c.maxBodySize)}
	}

	return body, nil
}

// GetJSON fetches url and decodes the JSON body of a 200 response into T.
func GetJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var target T

	body, err := c.Get(ctx, url, AcceptJSON)
	if err != nil {
		return target, err
	}

	if err := json.Unmarshal(body, &target); err != nil {
		return target, &DecodeError{URL: url, Err: err}
	}

	return target, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}
