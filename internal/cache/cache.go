// Package cache memoizes registry responses, in memory and optionally on disk.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/oborchers/mcp-server-pacman/internal/files"
)

// Cache holds successful registry responses for a fixed time-to-live.
// Failed lookups are never cached.
// NewCache should be used to create instances of Cache.
type Cache struct {
	// mem is the in-memory tier.
	mem *expirable.LRU[string, record]

	// group collapses concurrent loads of the same key into one upstream request.
	group singleflight.Group

	// dir is the directory where cache files are stored, empty disables the disk tier.
	dir string

	// ttl is the time-to-live for cached entries.
	ttl time.Duration

	// maxEntries is the capacity of the in-memory tier.
	maxEntries int

	// enabled determines if caching is enabled.
	enabled bool

	hits   atomic.Uint64
	misses atomic.Uint64

	// logger is used for logging cache operations.
	logger hclog.Logger
}

// record is a cached value as held by both tiers.
// ExpiresAt is fixed when the value is loaded and survives promotion from disk to memory.
type record struct {
	ExpiresAt time.Time       `json:"expiresAt"`
	Data      json.RawMessage `json:"data"`
}

func (r record) expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Stats is a point in time view of the cache.
type Stats struct {
	Enabled    bool          `json:"enabled" yaml:"enabled"`
	Entries    int           `json:"entries" yaml:"entries"`
	MaxEntries int           `json:"maxEntries" yaml:"maxEntries"`
	TTL        time.Duration `json:"ttl" yaml:"ttl"`
	Hits       uint64        `json:"hits" yaml:"hits"`
	Misses     uint64        `json:"misses" yaml:"misses"`
	Dir        string        `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// NewCache creates a new cache instance for registry responses.
func NewCache(logger hclog.Logger, opts ...Option) (*Cache, error) {
	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	// Only create cache directory if caching is enabled.
	if options.enabled && options.dir != "" {
		if err := files.EnsureAtLeastRegularDir(options.dir); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &Cache{
		mem:        expirable.NewLRU[string, record](options.maxEntries, nil, options.ttl),
		dir:        options.dir,
		ttl:        options.ttl,
		maxEntries: options.maxEntries,
		enabled:    options.enabled,
		logger:     logger.Named("cache"),
	}, nil
}

// Key builds a cache key from its parts, e.g. Key("info", "pypi", "requests", "").
// Parts are query escaped, so a separator inside a part can't collide with another key.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, "|")
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Concurrent callers asking for the same missing key share a single call to load.
// The shared load is detached from the cancellation of the caller that started it.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if c == nil {
		return load(ctx)
	}
	if !c.enabled {
		c.misses.Add(1)
		return load(ctx)
	}

	if rec, ok := c.lookup(key); ok {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err == nil {
			c.hits.Add(1)
			return v, nil
		}
		// An entry that no longer decodes (e.g. written by an older version) is treated as a miss.
		c.logger.Warn("Discarding undecodable cache entry", "key", key)
		c.Remove(key)
	}
	c.misses.Add(1)

	res, err, shared := c.group.Do(key, func() (any, error) {
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cache entry: %w", err)
		}
		c.store(key, data)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		c.logger.Trace("Shared in-flight load", "key", key)
	}

	return res.(T), nil
}

// Remove drops a single entry from every tier.
func (c *Cache) Remove(key string) {
	c.mem.Remove(key)
	if c.dir != "" {
		_ = os.Remove(c.path(key))
	}
}

// Purge drops every entry from every tier and returns how many in-memory entries were dropped.
func (c *Cache) Purge() int {
	n := c.mem.Len()
	c.mem.Purge()

	if c.dir == "" {
		return n
	}
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		c.logger.Warn("Failed to list cache files", "dir", c.dir, "error", err)
		return n
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("Failed to remove cache file", "path", m, "error", err)
		}
	}
	c.logger.Debug("Purged cache", "entries", n, "files", len(matches))

	return n
}

// Stats returns the current cache statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Enabled:    c.enabled,
		Entries:    c.mem.Len(),
		MaxEntries: c.maxEntries,
		TTL:        c.ttl,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Dir:        c.dir,
	}
}

func (c *Cache) lookup(key string) (record, bool) {
	now := time.Now()

	if rec, ok := c.mem.Get(key); ok {
		if !rec.expired(now) {
			return rec, true
		}
		c.mem.Remove(key)
	}
	if c.dir == "" {
		return record{}, false
	}

	p := c.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		return record{}, false
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.Warn("Discarding unreadable cache file", "key", key, "path", p, "error", err)
		_ = os.Remove(p)
		return record{}, false
	}
	if rec.expired(now) {
		return record{}, false
	}

	c.logger.Debug("Using cached file", "key", key, "path", p, "expires", rec.ExpiresAt)
	c.mem.Add(key, rec)

	return rec, true
}

func (c *Cache) store(key string, data []byte) {
	rec := record{ExpiresAt: time.Now().Add(c.ttl), Data: data}
	c.mem.Add(key, rec)
	if c.dir == "" {
		return
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		c.logger.Warn("Failed to encode cache file", "key", key, "error", err)
		return
	}
	if err := c.writeFile(c.path(key), encoded); err != nil {
		c.logger.Warn("Failed to write cache file", "key", key, "error", err)
	}
}

// path derives the cache file path from the key hash.
func (c *Cache) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", hash))
}

// writeFile atomically replaces the cache file at path.
func (c *Cache) writeFile(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(c.dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = os.Remove(tmpPath) // Clean up on any error.
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	_ = tmpFile.Close()

	if err := os.Chmod(tmpPath, files.RegularFile); err != nil {
		return fmt.Errorf("failed to set cache file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}
