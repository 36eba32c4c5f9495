package api

import (
	"context"

	"github.com/oborchers/mcp-server-pacman/internal/cache"
	"github.com/oborchers/mcp-server-pacman/internal/health"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// PackageService queries the configured package indices.
type PackageService interface {
	Search(ctx context.Context, req packages.SearchRequest) ([]packages.Summary, error)
	Info(ctx context.Context, req packages.InfoRequest) (packages.Details, error)
	PackageIndices() packages.Indices
}

// ImageService queries Docker Hub.
type ImageService interface {
	SearchImages(ctx context.Context, req packages.ImageSearchRequest) ([]packages.Image, error)
	ImageTags(ctx context.Context, req packages.ImageInfoRequest) (packages.ImageTags, error)
	ImageTag(ctx context.Context, req packages.ImageInfoRequest) (packages.ImageTagInfo, error)
}

// HealthMonitor exposes the observed health of each index.
type HealthMonitor interface {
	Status(idx packages.Index) (health.IndexHealth, error)
	List() []health.IndexHealth
}

// CacheMonitor exposes statistics of the response cache and allows clearing it.
type CacheMonitor interface {
	CacheStats() cache.Stats
	PurgeCache() int
}
