package registry

import (
	"fmt"

	"github.com/oborchers/mcp-server-pacman/internal/cache"
	"github.com/oborchers/mcp-server-pacman/internal/health"
)

// Option defines a functional option for configuring Registry.
type Option func(*Options) error

// Options contains optional configuration for the registry.
type Options struct {
	providers []PackageProvider
	images    ImageProvider
	cache     *cache.Cache
	health    *health.Tracker
}

// NewOptions returns Options with each of the supplied options applied.
func NewOptions(opts ...Option) (Options, error) {
	var o Options
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

// WithPackageProviders registers package index providers, in order.
func WithPackageProviders(providers ...PackageProvider) Option {
	return func(o *Options) error {
		for _, p := range providers {
			if p == nil {
				return fmt.Errorf("package provider cannot be nil")
			}
			o.providers = append(o.providers, p)
		}
		return nil
	}
}

// WithImageProvider registers the container image provider.
func WithImageProvider(p ImageProvider) Option {
	return func(o *Options) error {
		if p == nil {
			return fmt.Errorf("image provider cannot be nil")
		}
		o.images = p
		return nil
	}
}

// WithCache serves results through c. Without a cache every request reaches the upstream index.
func WithCache(c *cache.Cache) Option {
	return func(o *Options) error {
		o.cache = c
		return nil
	}
}

// WithHealthTracker records upstream outcomes in t.
// The tracker must know every registered index.
func WithHealthTracker(t *health.Tracker) Option {
	return func(o *Options) error {
		o.health = t
		return nil
	}
}
