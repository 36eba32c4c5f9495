package pypi

import (
	"fmt"
	"strings"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
)

var _ provider.Convertible[packages.Details] = (*Project)(nil)

// Project is the response of the PyPI JSON API for a project or a project release.
// See: https://docs.pypi.org/api/json/
type Project struct {
	Info     *ProjectInfo `json:"info"`
	Releases ReleaseKeys  `json:"releases"`
}

// ProjectInfo holds the metadata of the latest (or requested) release.
type ProjectInfo struct {
	Name              string            `json:"name"`
	Version           string            `json:"version"`
	Summary           string            `json:"summary"`
	Author            string            `json:"author"`
	AuthorEmail       string            `json:"author_email"`
	HomePage          string            `json:"home_page"`
	License           string            `json:"license"`
	LicenseExpression string            `json:"license_expression"`
	ProjectURLs       map[string]string `json:"project_urls"`
}

// ReleaseKeys are the version keys of the releases object, in the order PyPI returned them.
type ReleaseKeys []string

// UnmarshalJSON keeps only the keys of the releases object, preserving their order.
func (k *ReleaseKeys) UnmarshalJSON(data []byte) error {
	keys, err := provider.ObjectKeys(data)
	if err != nil {
		return fmt.Errorf("releases: %w", err)
	}
	*k = keys
	return nil
}

// ToDomainType shapes the project into package details.
func (p *Project) ToDomainType() (packages.Details, error) {
	if p.Info == nil {
		return packages.Details{}, fmt.Errorf("missing 'info'")
	}
	if p.Info.Name == "" {
		return packages.Details{}, fmt.Errorf("missing 'info.name'")
	}

	return packages.Details{
		Index:       packages.IndexPyPI,
		Name:        p.Info.Name,
		Version:     p.Info.Version,
		Description: p.Info.Summary,
		Author:      p.Info.author(),
		Homepage:    p.Info.homepage(),
		License:     p.Info.license(),
		Releases:    p.Releases,
	}, nil
}

// author falls back to the email when projects only declare 'Name <email>' there.
func (i *ProjectInfo) author() string {
	if a := strings.TrimSpace(i.Author); a != "" {
		return a
	}
	return strings.TrimSpace(i.AuthorEmail)
}

func (i *ProjectInfo) homepage() string {
	if h := strings.TrimSpace(i.HomePage); h != "" {
		return h
	}
	for _, k := range []string{"Homepage", "homepage", "Home", "Source", "Repository"} {
		if h := strings.TrimSpace(i.ProjectURLs[k]); h != "" {
			return h
		}
	}
	return ""
}

func (i *ProjectInfo) license() string {
	if l := strings.TrimSpace(i.LicenseExpression); l != "" {
		return l
	}
	return strings.TrimSpace(i.License)
}
