package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/cache"
	"github.com/oborchers/mcp-server-pacman/internal/config"
	"github.com/oborchers/mcp-server-pacman/internal/files"
	"github.com/oborchers/mcp-server-pacman/internal/flags"
	"github.com/oborchers/mcp-server-pacman/internal/health"
	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
	"github.com/oborchers/mcp-server-pacman/internal/provider/crates"
	"github.com/oborchers/mcp-server-pacman/internal/provider/dockerhub"
	"github.com/oborchers/mcp-server-pacman/internal/provider/npm"
	"github.com/oborchers/mcp-server-pacman/internal/provider/pypi"
	"github.com/oborchers/mcp-server-pacman/internal/registry"
)

// CacheDirAuto selects the user cache directory for persisted responses.
const CacheDirAuto = "auto"

type BaseCmd struct {
	logger       hclog.Logger
	configLoader config.Loader
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// SetConfigLoader replaces the loader used to read the config file.
func (c *BaseCmd) SetConfigLoader(l config.Loader) {
	c.configLoader = l
}

// Logger returns the current logger for the command.
// Logs never go to stdout, which the stdio transport owns.
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, files.RegularFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, using stderr\n", logPath, err)
			output = os.Stderr
		} else {
			output = f
		}
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "pacman",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}

// Settings resolves the effective configuration.
// Precedence is flags, then PACMAN_* environment variables, then the config file, then defaults.
func (c *BaseCmd) Settings() (config.Settings, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return config.Settings{}, err
	}

	s := cfg.Resolve()

	if ua := strings.TrimSpace(flags.UserAgent); ua != "" {
		s.UserAgent = ua
	}
	if flags.Timeout > 0 {
		s.Timeout = flags.Timeout
	}
	if flags.NoCache {
		s.Cache.Enabled = false
	}
	if flags.CacheTTL > 0 {
		s.Cache.TTL = flags.CacheTTL
	}
	if flags.CacheSize > 0 {
		s.Cache.MaxEntries = flags.CacheSize
	}
	if dir := strings.TrimSpace(flags.CacheDir); dir != "" {
		s.Cache.Dir = dir
	}

	if s.Cache.Dir == CacheDirAuto {
		dir, err := files.UserSpecificCacheDir()
		if err != nil {
			return config.Settings{}, err
		}
		s.Cache.Dir = dir
	}

	return s, nil
}

// loadConfig reads the config file named by flags, or the default one when it exists.
// No config file at all is not an error.
func (c *BaseCmd) loadConfig() (*config.Config, error) {
	loader := c.configLoader
	if loader == nil {
		loader = &config.DefaultLoader{}
	}

	path := strings.TrimSpace(flags.ConfigFile)
	if path != "" {
		return loader.Load(path)
	}

	path, err := config.DefaultPath()
	if err != nil {
		c.Logger().Debug("No default config path", "error", err)
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	c.Logger().Debug("Loading default config file", "path", path)
	return loader.Load(path)
}

// CreateRegistry builds the registry for every enabled index, sharing one HTTP client, cache and health tracker.
func (c *BaseCmd) CreateRegistry(s config.Settings) (*registry.Registry, error) {
	logger := c.Logger()

	client, err := httpclient.New(
		logger,
		httpclient.WithUserAgent(s.UserAgent),
		httpclient.WithTimeout(s.Timeout),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("Created upstream HTTP client", "userAgent", client.UserAgent(), "timeout", s.Timeout)

	cacheOpts := []cache.Option{
		cache.WithCaching(s.Cache.Enabled),
		cache.WithTTL(s.Cache.TTL),
		cache.WithMaxEntries(s.Cache.MaxEntries),
	}
	if s.Cache.Dir != "" {
		cacheOpts = append(cacheOpts, cache.WithDirectory(s.Cache.Dir))
	}
	responseCache, err := cache.NewCache(logger, cacheOpts...)
	if err != nil {
		return nil, err
	}

	enabled := s.EnabledIndices()
	opts := []registry.Option{
		registry.WithCache(responseCache),
		registry.WithHealthTracker(health.NewTracker(enabled...)),
	}

	for _, idx := range enabled {
		baseURL := provider.WithBaseURL(s.Indices[idx].URL)

		switch idx {
		case packages.IndexPyPI:
			p, err := pypi.NewProvider(logger, client, baseURL)
			if err != nil {
				return nil, err
			}
			opts = append(opts, registry.WithPackageProviders(p))
		case packages.IndexNpm:
			p, err := npm.NewProvider(logger, client, baseURL)
			if err != nil {
				return nil, err
			}
			opts = append(opts, registry.WithPackageProviders(p))
		case packages.IndexCrates:
			p, err := crates.NewProvider(logger, client, baseURL)
			if err != nil {
				return nil, err
			}
			opts = append(opts, registry.WithPackageProviders(p))
		case packages.IndexDocker:
			p, err := dockerhub.NewProvider(logger, client, baseURL)
			if err != nil {
				return nil, err
			}
			opts = append(opts, registry.WithImageProvider(p))
		}
	}

	logger.Debug("Creating registry", "indices", enabled.String(), "cache", s.Cache.Enabled)

	return registry.NewRegistry(logger, opts...)
}
