package config

import (
	"strings"
	"time"

	"github.com/oborchers/mcp-server-pacman/internal/cache"
	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const (
	// DefaultAPIAddr is the address the REST API binds to when none is configured.
	DefaultAPIAddr = "localhost:8090"

	// DefaultAPIShutdown is how long the API waits for in-flight requests during shutdown.
	DefaultAPIShutdown = 5 * time.Second

	// DefaultCORSMaxAge is how long browsers may cache preflight responses.
	DefaultCORSMaxAge = 5 * time.Minute
)

// Settings is the fully resolved configuration, with defaults applied to anything the config file left unset.
type Settings struct {
	UserAgent string
	Timeout   time.Duration
	Cache     CacheSettings
	API       APISettings
	Indices   map[packages.Index]IndexSettings
}

// CacheSettings are the resolved cache settings.
type CacheSettings struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
	Dir        string
}

// APISettings are the resolved REST API settings.
type APISettings struct {
	Addr     string
	Shutdown time.Duration
	CORS     CORSSettings
}

// CORSSettings are the resolved CORS settings.
type CORSSettings struct {
	Enabled          bool
	AllowOrigins     []string
	AllowMethods     []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// IndexSettings are the resolved settings of a single index.
type IndexSettings struct {
	// URL is the base URL override, empty means the provider default.
	URL     string
	Enabled bool
}

// DefaultSettings returns Settings populated with the application defaults.
func DefaultSettings() Settings {
	indices := make(map[packages.Index]IndexSettings, 4)
	for _, idx := range append(packages.PackageIndices(), packages.IndexDocker) {
		indices[idx] = IndexSettings{Enabled: true}
	}

	return Settings{
		UserAgent: httpclient.DefaultUserAgent,
		Timeout:   httpclient.DefaultTimeout,
		Cache: CacheSettings{
			Enabled:    true,
			TTL:        cache.DefaultTTL,
			MaxEntries: cache.DefaultMaxEntries,
		},
		API: APISettings{
			Addr:     DefaultAPIAddr,
			Shutdown: DefaultAPIShutdown,
			CORS: CORSSettings{
				AllowMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", "Mcp-Session-Id"},
				MaxAge:         DefaultCORSMaxAge,
			},
		},
		Indices: indices,
	}
}

// Resolve applies the values present in the config on top of DefaultSettings.
// A nil Config resolves to the defaults.
func (c *Config) Resolve() Settings {
	s := DefaultSettings()
	if c == nil {
		return s
	}

	if c.UserAgent != nil && strings.TrimSpace(*c.UserAgent) != "" {
		s.UserAgent = strings.TrimSpace(*c.UserAgent)
	}
	if c.Timeout != nil {
		s.Timeout = time.Duration(*c.Timeout)
	}

	if cs := c.Cache; cs != nil {
		if cs.Enable != nil {
			s.Cache.Enabled = *cs.Enable
		}
		if cs.TTL != nil {
			s.Cache.TTL = time.Duration(*cs.TTL)
		}
		if cs.MaxEntries != nil {
			s.Cache.MaxEntries = *cs.MaxEntries
		}
		if cs.Dir != nil {
			s.Cache.Dir = strings.TrimSpace(*cs.Dir)
		}
	}

	if as := c.API; as != nil {
		if as.Addr != nil && strings.TrimSpace(*as.Addr) != "" {
			s.API.Addr = strings.TrimSpace(*as.Addr)
		}
		if as.Shutdown != nil {
			s.API.Shutdown = time.Duration(*as.Shutdown)
		}
		if cors := as.CORS; cors != nil {
			if cors.Enable != nil {
				s.API.CORS.Enabled = *cors.Enable
			}
			if len(cors.Origins) > 0 {
				s.API.CORS.AllowOrigins = cors.Origins
			}
			if len(cors.Methods) > 0 {
				s.API.CORS.AllowMethods = cors.Methods
			}
			if len(cors.Headers) > 0 {
				s.API.CORS.AllowedHeaders = cors.Headers
			}
			if len(cors.ExposeHeaders) > 0 {
				s.API.CORS.ExposedHeaders = cors.ExposeHeaders
			}
			if cors.Credentials != nil {
				s.API.CORS.AllowCredentials = *cors.Credentials
			}
			if cors.MaxAge != nil {
				s.API.CORS.MaxAge = time.Duration(*cors.MaxAge)
			}
		}
	}

	for name, ic := range c.Indices {
		idx, err := packages.ParseIndex(name)
		if err != nil {
			// Load validates index names, so this only happens for hand-built configs.
			continue
		}
		s.Indices[idx] = IndexSettings{URL: strings.TrimRight(ic.URL, "/"), Enabled: !ic.Disable}
	}

	return s
}

// EnabledIndices returns the enabled indices in their canonical order.
func (s Settings) EnabledIndices() packages.Indices {
	var out packages.Indices
	for _, idx := range append(packages.PackageIndices(), packages.IndexDocker) {
		if is, ok := s.Indices[idx]; ok && is.Enabled {
			out = append(out, idx)
		}
	}
	return out
}
