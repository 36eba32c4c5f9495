package config

import (
	"fmt"
	"time"
)

var _ Provider = (*DefaultLoader)(nil)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Config represents the config.toml file structure.
// Every field is optional; unset values fall back to the application defaults.
//
// NOTE: if you add/remove fields you must review Settings and Config.Resolve.
type Config struct {
	// UserAgent sent with every registry request.
	// Maps to CLI flag --user-agent
	UserAgent *string `toml:"user_agent,omitempty"`

	// Timeout for a single registry request.
	// Maps to CLI flag --timeout
	Timeout *Duration `toml:"timeout,omitempty"`

	// Cache configuration for registry responses.
	Cache *CacheConfigSection `toml:"cache,omitempty"`

	// API configuration for the REST API (and HTTP MCP transport).
	API *APIConfigSection `toml:"api,omitempty"`

	// Indices allows overriding the base URL of, or disabling, individual package indices.
	// Keys are index names, e.g. 'pypi'.
	Indices map[string]IndexConfigSection `toml:"indices,omitempty"`

	configFilePath string `toml:"-"`
}

// CacheConfigSection contains registry response caching settings.
type CacheConfigSection struct {
	// Enable caching.
	// Maps to CLI flag --no-cache (inverted)
	Enable *bool `toml:"enable,omitempty"`

	// TTL is the time-to-live of a cached response.
	// Maps to CLI flag --cache-ttl
	TTL *Duration `toml:"ttl,omitempty"`

	// MaxEntries bounds the number of responses held in memory.
	// Maps to CLI flag --cache-size
	MaxEntries *int `toml:"max_entries,omitempty"`

	// Dir optionally persists cached responses on disk.
	// Maps to CLI flag --cache-dir
	Dir *string `toml:"dir,omitempty"`
}

// APIConfigSection contains API server configuration settings.
type APIConfigSection struct {
	// Address to bind the API server (e.g., "0.0.0.0:8090")
	// Maps to CLI flag --addr
	Addr *string `toml:"addr,omitempty"`

	// Shutdown timeout for graceful API server shutdown.
	Shutdown *Duration `toml:"shutdown,omitempty"`

	// Nested CORS configuration for cross-origin requests.
	CORS *CORSConfigSection `toml:"cors,omitempty"`
}

// CORSConfigSection contains Cross-Origin Resource Sharing (CORS) configuration.
type CORSConfigSection struct {
	Enable        *bool     `toml:"enable,omitempty"`
	Origins       []string  `toml:"allow_origins,omitempty"`
	Methods       []string  `toml:"allow_methods,omitempty"`
	Headers       []string  `toml:"allow_headers,omitempty"`
	ExposeHeaders []string  `toml:"expose_headers,omitempty"`
	Credentials   *bool     `toml:"allow_credentials,omitempty"`
	MaxAge        *Duration `toml:"max_age,omitempty"`
}

// IndexConfigSection contains per-index settings.
type IndexConfigSection struct {
	// URL overrides the base URL of the index API.
	URL string `toml:"url,omitempty"`

	// Disable removes the index from the server.
	Disable bool `toml:"disable,omitempty"`
}

// Duration is a custom time.Duration type that provides improved marshaling.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler for Duration.
func (d *Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String returns a human-readable string representation of the duration.
func (d *Duration) String() string {
	if d == nil {
		return ""
	}

	duration := time.Duration(*d)

	// List of duration units in descending order.
	units := []struct {
		unit   time.Duration
		suffix string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
		{time.Millisecond, "ms"},
	}

	for _, u := range units {
		if duration%u.unit == 0 {
			return fmt.Sprintf("%d%s", duration/u.unit, u.suffix)
		}
	}

	return duration.String()
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Path returns the file path this configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configFilePath
}
