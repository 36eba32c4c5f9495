package cache

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTTL is how long a registry response stays cached.
	DefaultTTL = time.Hour

	// DefaultMaxEntries bounds the number of responses held in memory.
	DefaultMaxEntries = 1000
)

// Option defines a functional option for configuring Cache.
type Option func(*Options) error

// Options contains optional configuration for the cache.
type Options struct {
	// dir is the directory where cache files are persisted, empty keeps the cache in memory only.
	dir string

	// ttl is the time-to-live for cached entries.
	ttl time.Duration

	// maxEntries is the number of entries held in memory before the least recently used is evicted.
	maxEntries int

	// enabled determines if caching is enabled.
	enabled bool
}

// NewOptions returns Options with defaults applied, followed by each of the supplied options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		enabled:    true,
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

// WithDirectory persists cached entries to the given directory in addition to memory.
func WithDirectory(dir string) Option {
	return func(o *Options) error {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return fmt.Errorf("cache directory cannot be empty")
		}
		o.dir = dir
		return nil
	}
}

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) error {
		if ttl <= 0 {
			return fmt.Errorf("TTL must be positive, got %v", ttl)
		}
		o.ttl = ttl
		return nil
	}
}

// WithMaxEntries sets how many entries are held in memory.
func WithMaxEntries(n int) Option {
	return func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("max entries must be positive, got %d", n)
		}
		o.maxEntries = n
		return nil
	}
}

// WithCaching configures whether caching is enabled.
func WithCaching(enabled bool) Option {
	return func(o *Options) error {
		o.enabled = enabled
		return nil
	}
}
