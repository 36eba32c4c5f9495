package flags

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "PACMAN_CONFIG_FILE"
	EnvVarLogPath    = "PACMAN_LOG_PATH"
	EnvVarLogLevel   = "PACMAN_LOG_LEVEL"
	EnvVarUserAgent  = "PACMAN_USER_AGENT"
	EnvVarCache      = "PACMAN_CACHE"
	EnvVarCacheDir   = "PACMAN_CACHE_DIR"
	EnvVarCacheTTL   = "PACMAN_CACHE_TTL"
	EnvVarCacheSize  = "PACMAN_CACHE_SIZE"
	EnvVarTimeout    = "PACMAN_TIMEOUT"

	// Defaults
	DefaultLogPath  = ""
	DefaultLogLevel = "info"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
	FlagNameUserAgent  = "user-agent"
	FlagNameNoCache    = "no-cache"
	FlagNameCacheDir   = "cache-dir"
	FlagNameCacheTTL   = "cache-ttl"
	FlagNameCacheSize  = "cache-size"
	FlagNameTimeout    = "timeout"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string
	UserAgent  string
	NoCache    bool
	CacheDir   string

	// Zero values mean "not set", leaving the config file or default in place.
	CacheTTL  time.Duration
	CacheSize int
	Timeout   time.Duration
)

// InitFlags registers the global (persistent) flags on the supplied flag set.
// Values from environment variables are used as the flag defaults.
func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
	initUpstream(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		ConfigFile = strings.TrimSpace(os.Getenv(EnvVarConfigFile))
	}
	fs.StringVar(
		&ConfigFile,
		FlagNameConfigFile,
		ConfigFile,
		"path to config file (defaults to the user config directory when present)",
	)
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level (trace, debug, info, warn, error, off)")
}

func initUpstream(fs *pflag.FlagSet) {
	if UserAgent == "" {
		UserAgent = strings.TrimSpace(os.Getenv(EnvVarUserAgent))
	}
	fs.StringVar(&UserAgent, FlagNameUserAgent, UserAgent, "custom User-Agent string for registry requests")

	if env := strings.ToLower(strings.TrimSpace(os.Getenv(EnvVarCache))); env != "" {
		switch env {
		case "0", "false", "off", "no":
			NoCache = true
		}
	}
	fs.BoolVar(&NoCache, FlagNameNoCache, NoCache, "disable caching of registry responses")

	if CacheDir == "" {
		CacheDir = strings.TrimSpace(os.Getenv(EnvVarCacheDir))
	}
	fs.StringVar(&CacheDir, FlagNameCacheDir, CacheDir, "optional directory used to persist cached registry responses")

	if CacheTTL == 0 {
		CacheTTL = durationFromEnv(EnvVarCacheTTL)
	}
	fs.DurationVar(&CacheTTL, FlagNameCacheTTL, CacheTTL, "time-to-live of cached registry responses (default 1h)")

	if CacheSize == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvVarCacheSize))); err == nil && n > 0 {
			CacheSize = n
		}
	}
	fs.IntVar(&CacheSize, FlagNameCacheSize, CacheSize, "maximum number of cached registry responses (default 1000)")

	if Timeout == 0 {
		Timeout = durationFromEnv(EnvVarTimeout)
	}
	fs.DurationVar(&Timeout, FlagNameTimeout, Timeout, "timeout of a single registry request (default 30s)")
}

// durationFromEnv parses the named environment variable, ignoring values that aren't positive durations.
func durationFromEnv(name string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(name)))
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
