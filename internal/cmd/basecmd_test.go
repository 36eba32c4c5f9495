package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/oborchers/mcp-server-pacman/internal/config"
	"github.com/oborchers/mcp-server-pacman/internal/files"
	"github.com/oborchers/mcp-server-pacman/internal/flags"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

func resetFlags(t *testing.T) {
	t.Helper()

	flags.ConfigFile, flags.UserAgent, flags.CacheDir = "", "", ""
	flags.NoCache = false
	flags.CacheTTL, flags.CacheSize, flags.Timeout = 0, 0, 0
	t.Cleanup(func() {
		flags.ConfigFile, flags.UserAgent, flags.CacheDir = "", "", ""
		flags.NoCache = false
		flags.CacheTTL, flags.CacheSize, flags.Timeout = 0, 0, 0
	})

	// Keep the user's real config directory out of the way.
	t.Setenv(files.EnvVarXDGConfigHome, t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBaseCmd_Settings_Defaults(t *testing.T) {
	resetFlags(t)

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	s, err := c.Settings()
	require.NoError(t, err)
	require.Equal(t, config.DefaultSettings(), s)
}

func TestBaseCmd_Settings_Precedence(t *testing.T) {
	resetFlags(t)

	flags.ConfigFile = writeConfig(t, `
user_agent = "file-agent"
timeout = "10s"

[cache]
ttl = "15m"
max_entries = 50

[indices.crates]
disable = true
`)
	flags.UserAgent = "flag-agent"
	flags.CacheSize = 7
	flags.NoCache = true

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	s, err := c.Settings()
	require.NoError(t, err)

	require.Equal(t, "flag-agent", s.UserAgent)
	require.Equal(t, 10*time.Second, s.Timeout)
	require.Equal(t, 15*time.Minute, s.Cache.TTL)
	require.Equal(t, 7, s.Cache.MaxEntries)
	require.False(t, s.Cache.Enabled)
	require.Equal(t, packages.Indices{packages.IndexPyPI, packages.IndexNpm, packages.IndexDocker}, s.EnabledIndices())
}

func TestBaseCmd_Settings_DefaultConfigFile(t *testing.T) {
	resetFlags(t)

	path, err := config.DefaultPath()
	require.NoError(t, err)
	require.NoError(t, (&config.DefaultLoader{}).Init(path))
	require.NoError(t, os.WriteFile(path, []byte(`user_agent = "default-file"`), 0o644))

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	s, err := c.Settings()
	require.NoError(t, err)
	require.Equal(t, "default-file", s.UserAgent)
}

func TestBaseCmd_Settings_MissingConfigFile(t *testing.T) {
	resetFlags(t)
	flags.ConfigFile = filepath.Join(t.TempDir(), "missing.toml")

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	_, err := c.Settings()
	require.ErrorIs(t, err, config.ErrConfigLoadFailed)
}

func TestBaseCmd_Settings_CacheDirAuto(t *testing.T) {
	resetFlags(t)
	cacheHome := t.TempDir()
	t.Setenv(files.EnvVarXDGCacheHome, cacheHome)
	flags.CacheDir = CacheDirAuto

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	s, err := c.Settings()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cacheHome, files.AppDirName()), s.Cache.Dir)
}

func TestBaseCmd_CreateRegistry(t *testing.T) {
	t.Parallel()

	s := config.DefaultSettings()
	s.Indices[packages.IndexNpm] = config.IndexSettings{Enabled: false}
	s.Indices[packages.IndexPyPI] = config.IndexSettings{Enabled: true, URL: "http://localhost:1234"}

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	reg, err := c.CreateRegistry(s)
	require.NoError(t, err)

	require.Equal(t, packages.Indices{packages.IndexPyPI, packages.IndexCrates, packages.IndexDocker}, reg.Indices())
	require.Equal(t, packages.Indices{packages.IndexPyPI, packages.IndexCrates}, reg.PackageIndices())
	require.True(t, reg.CacheStats().Enabled)
	require.Len(t, reg.Health().List(), 3)
}

func TestBaseCmd_CreateRegistry_InvalidURL(t *testing.T) {
	t.Parallel()

	s := config.DefaultSettings()
	s.Indices[packages.IndexCrates] = config.IndexSettings{Enabled: true, URL: "not-a-url"}

	c := &BaseCmd{logger: hclog.NewNullLogger()}
	_, err := c.CreateRegistry(s)
	require.Error(t, err)
}
