package packages

// Summary represents a single search hit returned by a package index.
// When Index is set, the hit is encoded with the full key set of that index (see MarshalJSON).
type Summary struct {
	// Index is the index the hit came from, it is never encoded.
	Index Index `json:"-" yaml:"-"`

	Name        string `json:"name"                 yaml:"name"`
	Version     string `json:"version"              yaml:"version"`
	Description string `json:"description"          yaml:"description"`

	// Publisher is the npm username that published the version.
	Publisher string `json:"publisher,omitempty"  yaml:"publisher,omitempty"`

	// Date is the npm publish date of the version.
	Date string `json:"date,omitempty"       yaml:"date,omitempty"`

	// Links are the npm links (homepage, repository, bugs, npm).
	Links map[string]string `json:"links,omitempty"      yaml:"links,omitempty"`

	// Downloads is the crates.io all-time download count.
	Downloads *int64 `json:"downloads,omitempty"  yaml:"downloads,omitempty"`

	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"` //nolint:tagliatelle
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"` //nolint:tagliatelle
}

// Details represents the detailed information for a package (optionally at a specific version).
// When Index is set, the details are encoded with the full key set of that index (see MarshalJSON).
type Details struct {
	// Index is the index the details came from, it is never encoded.
	Index Index `json:"-" yaml:"-"`

	Name        string `json:"name"                       yaml:"name"`
	Version     string `json:"version"                    yaml:"version"`
	Description string `json:"description"                yaml:"description"`
	Author      string `json:"author,omitempty"           yaml:"author,omitempty"`
	Homepage    string `json:"homepage,omitempty"         yaml:"homepage,omitempty"`
	License     string `json:"license"                    yaml:"license"`

	// Releases lists every released version (PyPI).
	Releases []string `json:"releases,omitempty"         yaml:"releases,omitempty"`

	// Dependencies maps dependency names to version requirements (npm).
	Dependencies map[string]string `json:"dependencies,omitempty"     yaml:"dependencies,omitempty"`

	// Versions lists known versions, newest first where the index orders them (npm, crates.io).
	Versions []string `json:"versions,omitempty"         yaml:"versions,omitempty"`

	Documentation   string   `json:"documentation,omitempty"    yaml:"documentation,omitempty"`
	Repository      string   `json:"repository,omitempty"       yaml:"repository,omitempty"`
	Downloads       *int64   `json:"downloads,omitempty"        yaml:"downloads,omitempty"`
	RecentDownloads *int64   `json:"recent_downloads,omitempty" yaml:"recent_downloads,omitempty"` //nolint:tagliatelle
	Categories      []string `json:"categories,omitempty"       yaml:"categories,omitempty"`
	Keywords        []string `json:"keywords,omitempty"         yaml:"keywords,omitempty"`

	// Yanked is only reported by crates.io.
	Yanked *bool `json:"yanked,omitempty"           yaml:"yanked,omitempty"`
}
