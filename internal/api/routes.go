package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// Dependencies are the services the API routes are backed by.
// Images is optional, the Docker routes are only registered when it is set.
type Dependencies struct {
	Packages PackageService
	Images   ImageService
	Health   HealthMonitor
	Cache    CacheMonitor
}

// Validate ensures every required dependency is present.
func (d Dependencies) Validate() error {
	if isNil(d.Packages) {
		return fmt.Errorf("package service cannot be nil")
	}
	if isNil(d.Health) {
		return fmt.Errorf("health monitor cannot be nil")
	}
	if isNil(d.Cache) {
		return fmt.Errorf("cache monitor cannot be nil")
	}
	return nil
}

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(router huma.API, deps Dependencies) (string, error) {
	if isNil(router) {
		return "", fmt.Errorf("router cannot be nil")
	}
	if err := deps.Validate(); err != nil {
		return "", err
	}

	// Extract API version from the router's OpenAPI spec.
	apiVersionID := router.OpenAPI().Info.Version

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", apiVersionID)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterPackageRoutes(versionedGroup, deps.Packages, "/packages")
	if !isNil(deps.Images) {
		RegisterImageRoutes(versionedGroup, deps.Images, "/docker")
	}
	RegisterHealthRoutes(versionedGroup, deps.Health, "/health")
	RegisterCacheRoutes(versionedGroup, deps.Cache, "/cache")

	return apiPathPrefix, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
