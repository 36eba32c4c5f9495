package packages

import (
	"fmt"
	"strings"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
)

const (
	// DefaultLimit is the number of search results returned when no limit is requested.
	DefaultLimit = 5

	// MinLimit is the smallest accepted search limit.
	MinLimit = 1

	// MaxLimit is the largest accepted search limit.
	MaxLimit = 49
)

// SearchRequest describes a search against a package index.
type SearchRequest struct {
	Index Index
	Query string
	Limit int
}

// InfoRequest describes a lookup of a single package, optionally at a specific version.
type InfoRequest struct {
	Index   Index
	Name    string
	Version string
}

// ImageSearchRequest describes a search for Docker Hub repositories.
type ImageSearchRequest struct {
	Query string
	Limit int
}

// ImageInfoRequest describes a lookup of a Docker Hub repository's tags, or a single tag when Tag is set.
type ImageInfoRequest struct {
	Name string
	Tag  string
	// Limit bounds the number of tags returned when listing.
	Limit int
}

// Normalize trims all fields and applies defaults, then validates the request.
func (r SearchRequest) Normalize() (SearchRequest, error) {
	idx, err := ParseIndex(string(r.Index))
	if err != nil {
		return SearchRequest{}, err
	}
	if !PackageIndices().Contains(idx) {
		return SearchRequest{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedIndex, idx)
	}

	query := strings.TrimSpace(r.Query)
	if query == "" {
		return SearchRequest{}, fmt.Errorf("%w: query is required", errors.ErrBadRequest)
	}

	limit, err := normalizeLimit(r.Limit)
	if err != nil {
		return SearchRequest{}, err
	}

	return SearchRequest{Index: idx, Query: query, Limit: limit}, nil
}

// Normalize trims all fields and validates the request.
func (r InfoRequest) Normalize() (InfoRequest, error) {
	idx, err := ParseIndex(string(r.Index))
	if err != nil {
		return InfoRequest{}, err
	}
	if !PackageIndices().Contains(idx) {
		return InfoRequest{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedIndex, idx)
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		return InfoRequest{}, fmt.Errorf("%w: package name is required", errors.ErrBadRequest)
	}

	return InfoRequest{Index: idx, Name: name, Version: strings.TrimSpace(r.Version)}, nil
}

// Normalize trims all fields and applies defaults, then validates the request.
func (r ImageSearchRequest) Normalize() (ImageSearchRequest, error) {
	query := strings.TrimSpace(r.Query)
	if query == "" {
		return ImageSearchRequest{}, fmt.Errorf("%w: query is required", errors.ErrBadRequest)
	}

	limit, err := normalizeLimit(r.Limit)
	if err != nil {
		return ImageSearchRequest{}, err
	}

	return ImageSearchRequest{Query: query, Limit: limit}, nil
}

// Normalize qualifies the image name, trims the tag and applies defaults, then validates the request.
func (r ImageInfoRequest) Normalize() (ImageInfoRequest, error) {
	name := NormalizeImageName(r.Name)
	if name == "" {
		return ImageInfoRequest{}, fmt.Errorf("%w: image name is required", errors.ErrBadRequest)
	}

	limit := r.Limit
	if limit == 0 {
		limit = DefaultTagLimit
	}
	if limit < MinLimit || limit > MaxTagLimit {
		return ImageInfoRequest{}, fmt.Errorf(
			"%w: limit must be between %d and %d, got %d",
			errors.ErrBadRequest,
			MinLimit,
			MaxTagLimit,
			limit,
		)
	}

	return ImageInfoRequest{Name: name, Tag: strings.TrimSpace(r.Tag), Limit: limit}, nil
}

const (
	// DefaultTagLimit is the number of tags returned when listing an image's tags.
	DefaultTagLimit = 25

	// MaxTagLimit is the largest page size accepted by Docker Hub.
	MaxTagLimit = 100
)

func normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < MinLimit || limit > MaxLimit {
		return 0, fmt.Errorf(
			"%w: limit must be between %d and %d, got %d",
			errors.ErrBadRequest,
			MinLimit,
			MaxLimit,
			limit,
		)
	}
	return limit, nil
}
