package dockerhub

import (
	"fmt"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
)

var (
	_ provider.Convertible[packages.Image]    = (*Repository)(nil)
	_ provider.Convertible[packages.ImageTag] = (*Tag)(nil)
)

// SearchResponse is the response of GET /v2/search/repositories/.
type SearchResponse struct {
	Count   int64         `json:"count"`
	Results []*Repository `json:"results"`
}

// Repository is a single repository search hit.
type Repository struct {
	RepoName         string `json:"repo_name"`
	ShortDescription string `json:"short_description"`
	StarCount        int64  `json:"star_count"`
	PullCount        int64  `json:"pull_count"`
	RepoOwner        string `json:"repo_owner"`
	IsOfficial       bool   `json:"is_official"`
	IsAutomated      bool   `json:"is_automated"`
}

// TagsResponse is the response of GET /v2/repositories/{namespace}/{repository}/tags/.
type TagsResponse struct {
	Count   int64  `json:"count"`
	Results []*Tag `json:"results"`
}

// Tag is a single tag of a repository.
type Tag struct {
	Name        string  `json:"name"`
	Digest      string  `json:"digest"`
	FullSize    int64   `json:"full_size"`
	LastUpdated string  `json:"last_updated"`
	Images      []Image `json:"images"`
}

// Image is the image built for one platform of a tag.
type Image struct {
	Architecture string `json:"architecture"`
	OS           string `json:"os"`
	Variant      string `json:"variant"`
	Size         int64  `json:"size"`
	Digest       string `json:"digest"`
}

// ToDomainType shapes the search hit into an image.
func (r *Repository) ToDomainType() (packages.Image, error) {
	if r.RepoName == "" {
		return packages.Image{}, fmt.Errorf("repository without name")
	}

	return packages.Image{
		Name:        r.RepoName,
		Description: r.ShortDescription,
		StarCount:   r.StarCount,
		PullCount:   r.PullCount,
		IsOfficial:  r.IsOfficial,
		IsAutomated: r.IsAutomated,
		Owner:       r.RepoOwner,
	}, nil
}

// ToDomainType shapes the tag into a tag listing entry.
func (t *Tag) ToDomainType() (packages.ImageTag, error) {
	if t.Name == "" {
		return packages.ImageTag{}, fmt.Errorf("tag without name")
	}

	return packages.ImageTag{
		Name:        t.Name,
		Digest:      t.Digest,
		FullSize:    t.FullSize,
		LastUpdated: t.LastUpdated,
		Images:      platforms(t.Images),
	}, nil
}

// info shapes the tag into the details of a tag of the named repository.
func (t *Tag) info(repository string) packages.ImageTagInfo {
	return packages.ImageTagInfo{
		Name:        repository,
		Tag:         t.Name,
		Digest:      t.Digest,
		FullSize:    t.FullSize,
		LastUpdated: t.LastUpdated,
		Images:      platforms(t.Images),
	}
}

func platforms(images []Image) []packages.Platform {
	out := make([]packages.Platform, 0, len(images))
	for _, img := range images {
		out = append(out, packages.Platform{
			Architecture: img.Architecture,
			OS:           img.OS,
			Variant:      img.Variant,
			Size:         img.Size,
			Digest:       img.Digest,
		})
	}
	return out
}
