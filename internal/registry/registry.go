package registry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/cache"
	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/health"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const registryName = "registry"

// PackageSearcher defines the interface for searching a package index.
type PackageSearcher interface {
	// Search returns at most limit packages matching the query.
	Search(ctx context.Context, query string, limit int) ([]packages.Summary, error)
}

// PackageResolver defines the interface for retrieving details of a single package.
type PackageResolver interface {
	// Info returns details of the named package.
	// An empty version means the latest release.
	Info(ctx context.Context, name string, version string) (packages.Details, error)
}

// PackageProvider is a package index that can be searched and queried.
type PackageProvider interface {
	PackageSearcher
	PackageResolver

	// ID returns the index this provider serves.
	ID() packages.Index
}

// ImageProvider is a container image registry.
type ImageProvider interface {
	// ID returns the index this provider serves.
	ID() packages.Index

	// SearchImages returns at most limit repositories matching the query.
	SearchImages(ctx context.Context, query string, limit int) ([]packages.Image, error)

	// Tags lists at most limit tags of the named image, most recently updated first.
	Tags(ctx context.Context, name string, limit int) (packages.ImageTags, error)

	// Tag returns details of a single tag of the named image.
	Tag(ctx context.Context, name string, tag string) (packages.ImageTagInfo, error)
}

// Registry routes requests to the provider of the requested index.
// Results are served through the cache and every upstream call is recorded in the health tracker.
// NewRegistry should be used to create instances of Registry.
type Registry struct {
	logger    hclog.Logger
	providers map[packages.Index]PackageProvider
	order     packages.Indices
	images    ImageProvider
	cache     *cache.Cache
	health    *health.Tracker
}

// NewRegistry creates a Registry over the supplied providers.
func NewRegistry(logger hclog.Logger, opt ...Option) (*Registry, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	m := make(map[packages.Index]PackageProvider, len(opts.providers))
	order := make(packages.Indices, 0, len(opts.providers)+1)
	for _, p := range opts.providers {
		id := p.ID()
		if _, exists := m[id]; exists {
			return nil, fmt.Errorf("duplicate provider ID detected: %s", id)
		}
		m[id] = p
		order = append(order, id)
	}
	if opts.images != nil {
		if _, exists := m[opts.images.ID()]; exists {
			return nil, fmt.Errorf("duplicate provider ID detected: %s", opts.images.ID())
		}
		order = append(order, opts.images.ID())
	}

	tracker := opts.health
	if tracker == nil {
		tracker = health.NewTracker(order...)
	}

	return &Registry{
		logger:    logger.Named(registryName),
		providers: m,
		order:     order,
		images:    opts.images,
		cache:     opts.cache,
		health:    tracker,
	}, nil
}

// Indices returns the registered indices in registration order.
func (r *Registry) Indices() packages.Indices {
	return append(packages.Indices(nil), r.order...)
}

// PackageIndices returns the registered package (non-image) indices in registration order.
func (r *Registry) PackageIndices() packages.Indices {
	out := make(packages.Indices, 0, len(r.providers))
	for _, idx := range r.order {
		if _, ok := r.providers[idx]; ok {
			out = append(out, idx)
		}
	}
	return out
}

// Health returns the tracker recording upstream outcomes.
func (r *Registry) Health() *health.Tracker {
	return r.health
}

// CacheStats returns the statistics of the response cache.
func (r *Registry) CacheStats() cache.Stats {
	if r.cache == nil {
		return cache.Stats{}
	}
	return r.cache.Stats()
}

// PurgeCache drops every cached response and returns how many in-memory entries were dropped.
func (r *Registry) PurgeCache() int {
	if r.cache == nil {
		return 0
	}
	n := r.cache.Purge()
	r.logger.Info("Purged response cache", "entries", n)
	return n
}

// Search validates req and searches the requested index.
func (r *Registry) Search(ctx context.Context, req packages.SearchRequest) ([]packages.Summary, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	p, err := r.provider(req.Index)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Searching packages", "index", req.Index, "query", req.Query, "limit", req.Limit)

	key := cache.Key("search", string(req.Index), req.Query, strconv.Itoa(req.Limit))
	results, err := cache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) ([]packages.Summary, error) {
		return observe(r, req.Index, func() ([]packages.Summary, error) {
			return p.Search(ctx, req.Query, req.Limit)
		})
	})
	if err != nil {
		return nil, err
	}

	// Cached entries lose the index, which decides the encoded key set.
	for i := range results {
		results[i].Index = req.Index
	}

	return results, nil
}

// Info validates req and fetches package details from the requested index.
func (r *Registry) Info(ctx context.Context, req packages.InfoRequest) (packages.Details, error) {
	req, err := req.Normalize()
	if err != nil {
		return packages.Details{}, err
	}

	p, err := r.provider(req.Index)
	if err != nil {
		return packages.Details{}, err
	}

	r.logger.Debug("Resolving package", "index", req.Index, "name", req.Name, "version", req.Version)

	key := cache.Key("info", string(req.Index), req.Name, req.Version)
	details, err := cache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) (packages.Details, error) {
		return observe(r, req.Index, func() (packages.Details, error) {
			return p.Info(ctx, req.Name, req.Version)
		})
	})
	if err != nil {
		return packages.Details{}, err
	}

	details.Index = req.Index

	return details, nil
}

// SearchImages validates req and searches the image registry.
func (r *Registry) SearchImages(ctx context.Context, req packages.ImageSearchRequest) ([]packages.Image, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if r.images == nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedIndex, packages.IndexDocker)
	}

	r.logger.Debug("Searching images", "query", req.Query, "limit", req.Limit)

	key := cache.Key("search", string(r.images.ID()), req.Query, strconv.Itoa(req.Limit))
	return cache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) ([]packages.Image, error) {
		return observe(r, r.images.ID(), func() ([]packages.Image, error) {
			return r.images.SearchImages(ctx, req.Query, req.Limit)
		})
	})
}

// ImageTags validates req and lists the tags of an image.
func (r *Registry) ImageTags(ctx context.Context, req packages.ImageInfoRequest) (packages.ImageTags, error) {
	req, err := req.Normalize()
	if err != nil {
		return packages.ImageTags{}, err
	}
	if r.images == nil {
		return packages.ImageTags{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedIndex, packages.IndexDocker)
	}

	r.logger.Debug("Listing image tags", "name", req.Name, "limit", req.Limit)

	key := cache.Key("tags", string(r.images.ID()), req.Name, strconv.Itoa(req.Limit))
	return cache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) (packages.ImageTags, error) {
		return observe(r, r.images.ID(), func() (packages.ImageTags, error) {
			return r.images.Tags(ctx, req.Name, req.Limit)
		})
	})
}

// ImageTag validates req and fetches a single tag of an image.
func (r *Registry) ImageTag(ctx context.Context, req packages.ImageInfoRequest) (packages.ImageTagInfo, error) {
	req, err := req.Normalize()
	if err != nil {
		return packages.ImageTagInfo{}, err
	}
	if req.Tag == "" {
		return packages.ImageTagInfo{}, fmt.Errorf("%w: tag is required", errors.ErrBadRequest)
	}
	if r.images == nil {
		return packages.ImageTagInfo{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedIndex, packages.IndexDocker)
	}

	r.logger.Debug("Resolving image tag", "name", req.Name, "tag", req.Tag)

	key := cache.Key("tag", string(r.images.ID()), req.Name, req.Tag)
	return cache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) (packages.ImageTagInfo, error) {
		return observe(r, r.images.ID(), func() (packages.ImageTagInfo, error) {
			return r.images.Tag(ctx, req.Name, req.Tag)
		})
	})
}

func (r *Registry) provider(idx packages.Index) (PackageProvider, error) {
	p, ok := r.providers[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not enabled", errors.ErrUnsupportedIndex, idx)
	}
	return p, nil
}

// observe runs an upstream call, recording its latency and outcome against idx.
func observe[T any](r *Registry, idx packages.Index, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	elapsed := time.Since(start)

	if hErr := r.health.Record(idx, elapsed, err); hErr != nil {
		r.logger.Warn("Failed to record index health", "index", idx, "error", hErr)
	}
	if err != nil {
		r.logger.Warn("Upstream request failed", "index", idx, "duration", elapsed, "error", err)
	}

	return v, err
}
