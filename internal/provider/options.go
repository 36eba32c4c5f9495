package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// Option defines a functional option for configuring a provider.
type Option func(*Options) error

// Options contains optional configuration shared by the index providers.
type Options struct {
	// BaseURL is the scheme and host (and optional path prefix) of the index API, without a trailing slash.
	BaseURL string
}

// NewOptions returns Options using defaultBaseURL, followed by each of the supplied options.
func NewOptions(defaultBaseURL string, opts ...Option) (Options, error) {
	o := Options{BaseURL: defaultBaseURL}

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

// WithBaseURL points the provider at a different deployment of the index API, e.g. a mirror or a test server.
// An empty value keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) error {
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if baseURL == "" {
			return nil
		}
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base URL '%s': must be absolute", baseURL)
		}
		o.BaseURL = baseURL
		return nil
	}
}
