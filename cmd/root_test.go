package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/cmd/output"
	"github.com/oborchers/mcp-server-pacman/internal/config"
	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/files"
	"github.com/oborchers/mcp-server-pacman/internal/flags"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const npmSearchResponse = `{
  "objects": [
    {"package": {"name": "express", "version": "4.18.2", "description": "Fast, unopinionated, minimalist web framework"}},
    {"package": {"name": "express-session", "version": "1.17.3"}}
  ],
  "total": 2
}`

const npmManifestResponse = `{
  "name": "express",
  "version": "4.17.0",
  "description": "Fast, unopinionated, minimalist web framework",
  "license": "MIT",
  "dependencies": {"accepts": "~1.3.7"}
}`

func resetFlags(t *testing.T) {
	t.Helper()

	reset := func() {
		flags.ConfigFile, flags.UserAgent, flags.CacheDir = "", "", ""
		flags.NoCache = false
		flags.CacheTTL, flags.CacheSize, flags.Timeout = 0, 0, 0
	}
	reset()
	t.Cleanup(reset)

	// Keep the user's real config directory out of the way.
	t.Setenv(files.EnvVarXDGConfigHome, t.TempDir())
}

// newNpmServer serves a fake npm registry and returns a config file pointing the npm index at it.
func newNpmServer(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /-/v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("text") == "nothing" {
			_, _ = w.Write([]byte(`{"objects": [], "total": 0}`))
			return
		}
		_, _ = w.Write([]byte(npmSearchResponse))
	})
	mux.HandleFunc("GET /express/4.17.0", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(npmManifestResponse))
	})
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Not found"}`, http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[indices.npm]\nurl = \"" + server.URL + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	base := &cmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())

	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: base})
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	resetFlags(t)

	base := &cmd.BaseCmd{}
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: base})
	require.NoError(t, err)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"serve", "api", "search", "info", "docker", "config", "version"} {
		require.Contains(t, names, want)
	}

	for _, name := range []string{flags.FlagNameConfigFile, flags.FlagNameNoCache, flags.FlagNameCacheTTL, flags.FlagNameTimeout} {
		require.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing global flag %s", name)
	}
	require.NotNil(t, rootCmd.Flags().Lookup("transport"))
}

func TestSearchCmd_JSON(t *testing.T) {
	resetFlags(t)
	cfg := newNpmServer(t)

	out, err := execute(t, "search", "npm", "express", "--config-file", cfg, "--format", "json")
	require.NoError(t, err)

	var payload output.ResultsPayload[packages.Summary]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Results, 2)
	require.Equal(t, "express", payload.Results[0].Name)
	require.Equal(t, "4.18.2", payload.Results[0].Version)
	require.Equal(t, "express-session", payload.Results[1].Name)
}

func TestSearchCmd_Text(t *testing.T) {
	resetFlags(t)
	cfg := newNpmServer(t)

	out, err := execute(t, "search", "npm", "express", "--config-file", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "express (4.18.2)")
	require.Contains(t, out, "Found 2 packages")

	out, err = execute(t, "search", "npm", "nothing", "--config-file", cfg)
	require.NoError(t, err)
	require.Equal(t, "No results found\n", out)
}

func TestSearchCmd_Errors(t *testing.T) {
	resetFlags(t)
	cfg := newNpmServer(t)

	tests := []struct {
		name        string
		args        []string
		expectedErr error
		contains    string
	}{
		{
			name:        "unknown index",
			args:        []string{"search", "maven", "guava"},
			expectedErr: errors.ErrUnsupportedIndex,
		},
		{
			name:        "limit out of range",
			args:        []string{"search", "npm", "express", "--limit", "50"},
			expectedErr: errors.ErrBadRequest,
		},
		{
			name:        "blank query",
			args:        []string{"search", "npm", "  "},
			expectedErr: errors.ErrBadRequest,
		},
		{
			name:     "invalid format",
			args:     []string{"search", "npm", "express", "--format", "xml"},
			contains: "invalid format 'xml'",
		},
		{
			name:     "missing query",
			args:     []string{"search", "npm"},
			contains: "accepts 2 arg(s)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, append(tc.args, "--config-file", cfg)...)
			require.Error(t, err)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			}
			if tc.contains != "" {
				require.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestInfoCmd(t *testing.T) {
	resetFlags(t)
	cfg := newNpmServer(t)

	out, err := execute(t, "info", "npm", "express", "--version", "4.17.0", "--config-file", cfg, "--format", "json")
	require.NoError(t, err)

	var payload output.ResultPayload[packages.Details]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "express", payload.Result.Name)
	require.Equal(t, "4.17.0", payload.Result.Version)
	require.Equal(t, "MIT", payload.Result.License)
	require.Equal(t, map[string]string{"accepts": "~1.3.7"}, payload.Result.Dependencies)
}

func TestInfoCmd_NotFound(t *testing.T) {
	resetFlags(t)
	cfg := newNpmServer(t)

	_, err := execute(t, "info", "npm", "missing", "--config-file", cfg)
	require.ErrorIs(t, err, errors.ErrPackageNotFound)

	// Structured formats report the error in the payload.
	out, err := execute(t, "info", "npm", "missing", "--config-file", cfg, "--format", "json")
	require.NoError(t, err)

	var payload output.ErrorPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.NotEmpty(t, payload.Error)
}

func TestConfigCmd(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "path", "--config-file", path)
	require.NoError(t, err)
	require.Equal(t, path+"\n", out)

	out, err = execute(t, "config", "init", "--config-file", path)
	require.NoError(t, err)
	require.Contains(t, out, path)
	require.FileExists(t, path)

	_, err = execute(t, "config", "init", "--config-file", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	// The created skeleton only holds comments, so it must resolve to the defaults.
	cfg, err := (&config.DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultSettings(), cfg.Resolve())
}

func TestVersionCmd(t *testing.T) {
	resetFlags(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, cmd.AppName+" "+cmd.Version()+"\n", out)
}
