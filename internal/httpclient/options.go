package httpclient

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultUserAgent identifies the server to the package indices.
	DefaultUserAgent = "ModelContextProtocol/1.0 Pacman (+https://github.com/modelcontextprotocol/servers)"

	// DefaultTimeout bounds a single upstream request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize bounds how much of a response body is read.
	// Full npm packuments for popular packages run to tens of megabytes.
	DefaultMaxBodySize int64 = 64 << 20
)

// Option defines a functional option for configuring Client.
type Option func(*Options) error

// Options contains optional configuration for the client.
type Options struct {
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	httpClient  *http.Client
}

// NewOptions returns Options with defaults applied, followed by each of the supplied options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *Options) error {
		ua = strings.TrimSpace(ua)
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		o.userAgent = ua
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

// WithMaxBodySize sets the maximum number of response body bytes that are read.
func WithMaxBodySize(n int64) Option {
	return func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("max body size must be positive, got %d", n)
		}
		o.maxBodySize = n
		return nil
	}
}

// WithHTTPClient replaces the underlying transport client, mostly useful for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.httpClient = c
		return nil
	}
}
