package packages

import (
	"bytes"
	"encoding/json"
)

// summaryFields and detailsFields drop the custom marshallers so the generic shape can be encoded directly.
type (
	summaryFields Summary
	detailsFields Details
)

type pypiSummary struct {
	Name        string `json:"name"        yaml:"name"`
	Version     string `json:"version"     yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

type npmSummary struct {
	Name        string            `json:"name"        yaml:"name"`
	Version     string            `json:"version"     yaml:"version"`
	Description string            `json:"description" yaml:"description"`
	Publisher   string            `json:"publisher"   yaml:"publisher"`
	Date        string            `json:"date"        yaml:"date"`
	Links       map[string]string `json:"links"       yaml:"links"`
}

type cratesSummary struct {
	Name        string `json:"name"        yaml:"name"`
	Version     string `json:"version"     yaml:"version"`
	Description string `json:"description" yaml:"description"`
	Downloads   int64  `json:"downloads"   yaml:"downloads"`
	CreatedAt   string `json:"created_at"  yaml:"created_at"` //nolint:tagliatelle
	UpdatedAt   string `json:"updated_at"  yaml:"updated_at"` //nolint:tagliatelle
}

type pypiDetails struct {
	Name        string   `json:"name"        yaml:"name"`
	Version     string   `json:"version"     yaml:"version"`
	Description string   `json:"description" yaml:"description"`
	Author      string   `json:"author"      yaml:"author"`
	Homepage    string   `json:"homepage"    yaml:"homepage"`
	License     string   `json:"license"     yaml:"license"`
	Releases    []string `json:"releases"    yaml:"releases"`
}

type npmDetails struct {
	Name         string            `json:"name"               yaml:"name"`
	Version      string            `json:"version"            yaml:"version"`
	Description  string            `json:"description"        yaml:"description"`
	Author       string            `json:"author"             yaml:"author"`
	Homepage     string            `json:"homepage"           yaml:"homepage"`
	License      string            `json:"license"            yaml:"license"`
	Dependencies map[string]string `json:"dependencies"       yaml:"dependencies"`

	// Versions is only reported when the latest version was requested.
	Versions []string `json:"versions,omitempty" yaml:"versions,omitempty"`
}

type cratesDetails struct {
	Name            string   `json:"name"             yaml:"name"`
	Version         string   `json:"version"          yaml:"version"`
	Description     string   `json:"description"      yaml:"description"`
	Homepage        string   `json:"homepage"         yaml:"homepage"`
	Documentation   string   `json:"documentation"    yaml:"documentation"`
	Repository      string   `json:"repository"       yaml:"repository"`
	Downloads       int64    `json:"downloads"        yaml:"downloads"`
	RecentDownloads int64    `json:"recent_downloads" yaml:"recent_downloads"` //nolint:tagliatelle
	Categories      []string `json:"categories"       yaml:"categories"`
	Keywords        []string `json:"keywords"         yaml:"keywords"`
	Versions        []string `json:"versions"         yaml:"versions"`
	Yanked          bool     `json:"yanked"           yaml:"yanked"`
	License         string   `json:"license"          yaml:"license"`
}

// MarshalJSON encodes the hit with every key its index reports, filling absent values with empty ones.
func (s Summary) MarshalJSON() ([]byte, error) {
	return encode(s.view())
}

// MarshalYAML implements yaml.Marshaler using the same shape as MarshalJSON.
func (s Summary) MarshalYAML() (any, error) {
	return s.view(), nil
}

// MarshalJSON encodes the details with every key their index reports, filling absent values with empty ones.
func (d Details) MarshalJSON() ([]byte, error) {
	return encode(d.view())
}

// MarshalYAML implements yaml.Marshaler using the same shape as MarshalJSON.
func (d Details) MarshalYAML() (any, error) {
	return d.view(), nil
}

func (s Summary) view() any {
	switch s.Index {
	case IndexPyPI:
		return pypiSummary{
			Name:        s.Name,
			Version:     s.Version,
			Description: s.Description,
		}
	case IndexNpm:
		return npmSummary{
			Name:        s.Name,
			Version:     s.Version,
			Description: s.Description,
			Publisher:   s.Publisher,
			Date:        s.Date,
			Links:       orEmptyMap(s.Links),
		}
	case IndexCrates:
		return cratesSummary{
			Name:        s.Name,
			Version:     s.Version,
			Description: s.Description,
			Downloads:   orZero(s.Downloads),
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		}
	default:
		return summaryFields(s)
	}
}

func (d Details) view() any {
	switch d.Index {
	case IndexPyPI:
		return pypiDetails{
			Name:        d.Name,
			Version:     d.Version,
			Description: d.Description,
			Author:      d.Author,
			Homepage:    d.Homepage,
			License:     d.License,
			Releases:    orEmptySlice(d.Releases),
		}
	case IndexNpm:
		return npmDetails{
			Name:         d.Name,
			Version:      d.Version,
			Description:  d.Description,
			Author:       d.Author,
			Homepage:     d.Homepage,
			License:      d.License,
			Dependencies: orEmptyMap(d.Dependencies),
			Versions:     d.Versions,
		}
	case IndexCrates:
		var yanked bool
		if d.Yanked != nil {
			yanked = *d.Yanked
		}

		return cratesDetails{
			Name:            d.Name,
			Version:         d.Version,
			Description:     d.Description,
			Homepage:        d.Homepage,
			Documentation:   d.Documentation,
			Repository:      d.Repository,
			Downloads:       orZero(d.Downloads),
			RecentDownloads: orZero(d.RecentDownloads),
			Categories:      orEmptySlice(d.Categories),
			Keywords:        orEmptySlice(d.Keywords),
			Versions:        orEmptySlice(d.Versions),
			Yanked:          yanked,
			License:         d.License,
		}
	default:
		return detailsFields(d)
	}
}

// encode is json.Marshal without HTML escaping.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func orZero(n *int64) int64 {
	if n == nil {
		return 0
	}

	return *n
}
