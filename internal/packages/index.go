package packages

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
)

const (
	// IndexPyPI is the Python Package Index.
	IndexPyPI Index = "pypi"

	// IndexNpm is the npm registry.
	IndexNpm Index = "npm"

	// IndexCrates is crates.io, the Rust package registry.
	IndexCrates Index = "crates"

	// IndexDocker is Docker Hub.
	IndexDocker Index = "docker"
)

// Index identifies a public package index.
type Index string

// Indices is a collection of Index values.
type Indices []Index

// PackageIndices returns the indices that serve packages (as opposed to container images).
func PackageIndices() Indices {
	return Indices{IndexPyPI, IndexNpm, IndexCrates}
}

// ParseIndex converts the supplied value into a known package Index.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseIndex(v string) (Index, error) {
	idx := Index(strings.ToLower(strings.TrimSpace(v)))
	switch idx {
	case IndexPyPI, IndexNpm, IndexCrates, IndexDocker:
		return idx, nil
	default:
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedIndex, v)
	}
}

// String implements fmt.Stringer.
func (i Index) String() string {
	return string(i)
}

// DisplayName returns the human-readable name of the index, as used in messages.
func (i Index) DisplayName() string {
	switch i {
	case IndexPyPI:
		return "PyPI"
	case IndexNpm:
		return "npm"
	case IndexCrates:
		return "crates.io"
	case IndexDocker:
		return "Docker Hub"
	default:
		return string(i)
	}
}

// Contains reports whether the collection includes the supplied index.
func (i Indices) Contains(idx Index) bool {
	return slices.Contains(i, idx)
}

// ToStrings converts the collection to plain strings.
func (i Indices) ToStrings() []string {
	out := make([]string, len(i))
	for n, v := range i {
		out[n] = string(v)
	}
	return out
}

// String returns the indices as a comma separated list.
func (i Indices) String() string {
	return strings.Join(i.ToStrings(), ", ")
}
