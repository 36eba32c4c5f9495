package npm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
)

var (
	_ provider.Convertible[packages.Summary] = (*SearchObject)(nil)
	_ provider.Convertible[packages.Details] = (*Packument)(nil)
)

// SearchResponse is the response of the registry search endpoint.
// See: https://github.com/npm/registry/blob/main/docs/REGISTRY-API.md#get-v1search
type SearchResponse struct {
	Objects []*SearchObject `json:"objects"`
	Total   int             `json:"total"`
}

// SearchObject is a single search hit.
type SearchObject struct {
	Package *SearchPackage `json:"package"`
}

// SearchPackage is the package metadata of a search hit.
type SearchPackage struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Links       map[string]string `json:"links"`
	Publisher   struct {
		Username string `json:"username"`
	} `json:"publisher"`
}

// Packument is the full package document returned for a package name.
type Packument struct {
	Name     string              `json:"name"`
	DistTags map[string]string   `json:"dist-tags"` //nolint:tagliatelle
	Versions map[string]Manifest `json:"versions"`

	// versionOrder holds the keys of Versions in document order.
	versionOrder []string
}

// Manifest is the metadata of a single published version.
type Manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Author       Person            `json:"author"`
	Homepage     string            `json:"homepage"`
	License      License           `json:"license"`
	Dependencies map[string]string `json:"dependencies"`
}

// Person is an npm people field, published either as "Name <email> (url)" or as an object.
type Person string

// License is an npm license field, published either as an SPDX string or as a legacy {"type": ...} object.
type License string

func (p *Person) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Person(strings.TrimSpace(s))
		return nil
	}

	var obj struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Anything else (arrays, numbers) is ignored rather than failing the whole document.
		*p = ""
		return nil
	}

	out := strings.TrimSpace(obj.Name)
	if e := strings.TrimSpace(obj.Email); e != "" {
		out = strings.TrimSpace(fmt.Sprintf("%s <%s>", out, e))
	}
	*p = Person(out)
	return nil
}

func (l *License) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = License(strings.TrimSpace(s))
		return nil
	}

	var obj struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*l = ""
		return nil
	}
	*l = License(strings.TrimSpace(obj.Type))
	return nil
}

// UnmarshalJSON decodes the packument, remembering the order of its versions.
func (p *Packument) UnmarshalJSON(data []byte) error {
	type alias Packument
	var raw struct {
		alias
		Versions json.RawMessage `json:"versions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Packument(raw.alias)
	if len(raw.Versions) == 0 {
		return nil
	}

	order, err := provider.ObjectKeys(raw.Versions)
	if err != nil {
		return fmt.Errorf("versions: %w", err)
	}
	if err := json.Unmarshal(raw.Versions, &p.Versions); err != nil {
		return fmt.Errorf("versions: %w", err)
	}
	p.versionOrder = order

	return nil
}

// ToDomainType shapes the search hit into a summary.
func (o *SearchObject) ToDomainType() (packages.Summary, error) {
	if o.Package == nil || o.Package.Name == "" {
		return packages.Summary{}, fmt.Errorf("search result without package name")
	}

	return packages.Summary{
		Index:       packages.IndexNpm,
		Name:        o.Package.Name,
		Version:     o.Package.Version,
		Description: o.Package.Description,
		Publisher:   o.Package.Publisher.Username,
		Date:        o.Package.Date,
		Links:       o.Package.Links,
	}, nil
}

// ToDomainType shapes the packument into details of the latest version, listing every known version.
func (p *Packument) ToDomainType() (packages.Details, error) {
	latest := p.DistTags["latest"]
	m := p.Versions[latest]

	d := m.details(p.Name, latest)
	d.Version = latest
	d.Versions = p.versionOrder
	if d.Versions == nil {
		d.Versions = []string{}
	}

	return d, nil
}

// details falls back to the supplied name and version when the manifest omits them.
func (m *Manifest) details(name string, version string) packages.Details {
	if m.Name != "" {
		name = m.Name
	}
	if m.Version != "" {
		version = m.Version
	}

	deps := m.Dependencies
	if deps == nil {
		deps = map[string]string{}
	}

	return packages.Details{
		Index:        packages.IndexNpm,
		Name:         name,
		Version:      version,
		Description:  m.Description,
		Author:       string(m.Author),
		Homepage:     m.Homepage,
		License:      string(m.License),
		Dependencies: deps,
	}
}
