package crates

import (
	"fmt"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
)

var _ provider.Convertible[packages.Summary] = (*Crate)(nil)

// SearchResponse is the response of GET /api/v1/crates.
type SearchResponse struct {
	Crates []*Crate `json:"crates"`
}

// CrateResponse is the response of GET /api/v1/crates/{name}.
type CrateResponse struct {
	Crate    *Crate    `json:"crate"`
	Versions []Version `json:"versions"`
}

// VersionResponse is the response of GET /api/v1/crates/{name}/{version}.
type VersionResponse struct {
	Version *Version `json:"version"`
}

// Crate is the crate-level metadata.
type Crate struct {
	Name            string   `json:"name"`
	MaxVersion      string   `json:"max_version"`
	Description     string   `json:"description"`
	Homepage        string   `json:"homepage"`
	Documentation   string   `json:"documentation"`
	Repository      string   `json:"repository"`
	Downloads       int64    `json:"downloads"`
	RecentDownloads int64    `json:"recent_downloads"`
	Categories      []string `json:"categories"`
	Keywords        []string `json:"keywords"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// Version is the metadata of a single published version.
type Version struct {
	Num     string `json:"num"`
	License string `json:"license"`
	Yanked  bool   `json:"yanked"`
}

// ToDomainType shapes the crate into a search summary.
func (c *Crate) ToDomainType() (packages.Summary, error) {
	if c.Name == "" {
		return packages.Summary{}, fmt.Errorf("crate without name")
	}

	downloads := c.Downloads
	return packages.Summary{
		Index:       packages.IndexCrates,
		Name:        c.Name,
		Version:     c.MaxVersion,
		Description: c.Description,
		Downloads:   &downloads,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

// details shapes the crate into package details.
// version is the requested version, detail is the version that supplies license and yanked state (may be nil).
func (r *CrateResponse) details(version string, detail *Version) (packages.Details, error) {
	if r.Crate == nil || r.Crate.Name == "" {
		return packages.Details{}, fmt.Errorf("missing 'crate'")
	}
	c := r.Crate

	// Without a usable requested version, the first listed (latest) version is used.
	if detail == nil && len(r.Versions) > 0 {
		detail = &r.Versions[0]
		version = detail.Num
	}
	if version == "" {
		version = c.MaxVersion
	}

	versions := make([]string, 0, len(r.Versions))
	for _, v := range r.Versions {
		versions = append(versions, v.Num)
	}

	var license string
	var yanked bool
	if detail != nil {
		license = detail.License
		yanked = detail.Yanked
	}

	downloads, recent := c.Downloads, c.RecentDownloads
	return packages.Details{
		Index:           packages.IndexCrates,
		Name:            c.Name,
		Version:         version,
		Description:     c.Description,
		Homepage:        c.Homepage,
		License:         license,
		Documentation:   c.Documentation,
		Repository:      c.Repository,
		Downloads:       &downloads,
		RecentDownloads: &recent,
		Categories:      nonNil(c.Categories),
		Keywords:        nonNil(c.Keywords),
		Versions:        versions,
		Yanked:          &yanked,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
