package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/oborchers/mcp-server-pacman/internal/files"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// DefaultFileName is the name of the config file within the user config directory.
const DefaultFileName = "config.toml"

// DefaultPath returns the default location of the config file, following the XDG Base Directory Specification.
func DefaultPath() (string, error) {
	dir, err := files.UserSpecificConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFileName), nil
}

// Init creates the skeleton configuration file, with every setting commented out.
func (d *DefaultLoader) Init(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := files.EnsureAtLeastRegularDir(filepath.Dir(path)); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(skeleton), files.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load decodes and validates the config file at the supplied path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found (%s): %w", ErrConfigLoadFailed, path, err)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, undecoded[0].String())
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Update the path that loaded this file to track it.
	cfg.configFilePath = path

	return cfg, nil
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	if c.Timeout != nil && *c.Timeout <= 0 {
		return NewErrInvalidValue("timeout", c.Timeout.String())
	}

	if c.Cache != nil {
		if c.Cache.TTL != nil && *c.Cache.TTL <= 0 {
			return NewErrInvalidValue("cache.ttl", c.Cache.TTL.String())
		}
		if c.Cache.MaxEntries != nil && *c.Cache.MaxEntries <= 0 {
			return NewErrInvalidValue("cache.max_entries", fmt.Sprintf("%d", *c.Cache.MaxEntries))
		}
	}

	if c.API != nil && c.API.Shutdown != nil && *c.API.Shutdown <= 0 {
		return NewErrInvalidValue("api.shutdown", c.API.Shutdown.String())
	}

	for name, idx := range c.Indices {
		if _, err := packages.ParseIndex(name); err != nil {
			return fmt.Errorf("%w: indices.%s: %w", ErrInvalidKey, name, err)
		}
		if idx.URL == "" {
			continue
		}
		u, err := url.Parse(idx.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return NewErrInvalidValue("indices."+name+".url", idx.URL)
		}
	}

	return nil
}

const skeleton = `# mcp-server-pacman configuration.
# Every setting is optional, command line flags and PACMAN_* environment variables take precedence.

# user_agent = "ModelContextProtocol/1.0 Pacman (+https://github.com/modelcontextprotocol/servers)"
# timeout = "30s"

[cache]
# enable = true
# ttl = "1h"
# max_entries = 1000
# dir = ""

[api]
# addr = "localhost:8090"
# shutdown = "5s"

[api.cors]
# enable = false
# allow_origins = ["*"]

# [indices.pypi]
# url = "https://pypi.org"
# disable = false
`
