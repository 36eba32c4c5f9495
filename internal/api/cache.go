package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// CacheStats is the API view of the response cache.
type CacheStats struct {
	Enabled    bool   `json:"enabled"`
	Entries    int    `json:"entries"`
	MaxEntries int    `json:"maxEntries"`
	TTL        string `json:"ttl"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Dir        string `json:"dir,omitempty"`
}

// CacheStatsResponse is the response for GET /cache/stats
type CacheStatsResponse struct {
	Body CacheStats
}

// PurgeCacheResponse is the response for DELETE /cache/entries
type PurgeCacheResponse struct {
	Body struct {
		Purged int `doc:"Number of in-memory entries dropped" json:"purged"`
	}
}

// RegisterCacheRoutes sets up cache-related API endpoint routes.
func RegisterCacheRoutes(routerAPI huma.API, monitor CacheMonitor, apiPathPrefix string) {
	cacheAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	huma.Register(
		cacheAPI,
		huma.Operation{
			OperationID: "getCacheStats",
			Method:      http.MethodGet,
			Path:        "/stats",
			Summary:     "Get response cache statistics",
			Tags:        []string{"Cache"},
		},
		func(ctx context.Context, _ *struct{}) (*CacheStatsResponse, error) {
			s := monitor.CacheStats()
			return &CacheStatsResponse{
				Body: CacheStats{
					Enabled:    s.Enabled,
					Entries:    s.Entries,
					MaxEntries: s.MaxEntries,
					TTL:        s.TTL.String(),
					Hits:       s.Hits,
					Misses:     s.Misses,
					Dir:        s.Dir,
				},
			}, nil
		},
	)

	huma.Register(
		cacheAPI,
		huma.Operation{
			OperationID: "purgeCache",
			Method:      http.MethodDelete,
			Path:        "/entries",
			Summary:     "Drop every cached response",
			Tags:        []string{"Cache"},
		},
		func(ctx context.Context, _ *struct{}) (*PurgeCacheResponse, error) {
			resp := &PurgeCacheResponse{}
			resp.Body.Purged = monitor.PurgeCache()
			return resp, nil
		},
	)
}
