//go:build docsgen_api
// +build docsgen_api

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/api"
	"github.com/oborchers/mcp-server-pacman/internal/cache"
	"github.com/oborchers/mcp-server-pacman/internal/health"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// stubService provides a stub implementation for documentation generation.
type stubService struct{}

func (stubService) Search(context.Context, packages.SearchRequest) ([]packages.Summary, error) {
	return nil, nil
}

func (stubService) Info(context.Context, packages.InfoRequest) (packages.Details, error) {
	return packages.Details{}, nil
}

func (stubService) PackageIndices() packages.Indices { return packages.PackageIndices() }

func (stubService) SearchImages(context.Context, packages.ImageSearchRequest) ([]packages.Image, error) {
	return nil, nil
}

func (stubService) ImageTags(context.Context, packages.ImageInfoRequest) (packages.ImageTags, error) {
	return packages.ImageTags{}, nil
}

func (stubService) ImageTag(context.Context, packages.ImageInfoRequest) (packages.ImageTagInfo, error) {
	return packages.ImageTagInfo{}, nil
}

func (stubService) CacheStats() cache.Stats { return cache.Stats{} }

func (stubService) PurgeCache() int { return 0 }

// main generates the OpenAPI specification for the REST API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pacman.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// Create a chi router (same as the API server).
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	config := huma.DefaultConfig("mcp-server-pacman", api.APIVersion)
	config.CreateHooks = nil
	router := humachi.New(mux, config)

	// The OpenAPI spec generation only needs the route definitions, not working handlers.
	svc := stubService{}
	apiPathPrefix, err := api.RegisterRoutes(router, api.Dependencies{
		Packages: svc,
		Images:   svc,
		Health:   health.NewTracker(packages.PackageIndices()...),
		Cache:    svc,
	})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0o644); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
