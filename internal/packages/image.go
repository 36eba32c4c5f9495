package packages

import "strings"

// officialNamespace is the Docker Hub namespace used for official images.
const officialNamespace = "library"

// Image represents a Docker Hub repository search hit.
type Image struct {
	Name        string `json:"name"         yaml:"name"`
	Description string `json:"description"  yaml:"description"`
	StarCount   int64  `json:"star_count"   yaml:"star_count"`   //nolint:tagliatelle
	PullCount   int64  `json:"pull_count"   yaml:"pull_count"`   //nolint:tagliatelle
	IsOfficial  bool   `json:"is_official"  yaml:"is_official"`  //nolint:tagliatelle
	IsAutomated bool   `json:"is_automated" yaml:"is_automated"` //nolint:tagliatelle
	Owner       string `json:"owner"        yaml:"owner"`
}

// ImageTags represents the tag listing of a Docker Hub repository.
type ImageTags struct {
	Name       string     `json:"name"       yaml:"name"`
	Repository string     `json:"repository" yaml:"repository"`
	TagCount   int64      `json:"tag_count"  yaml:"tag_count"` //nolint:tagliatelle
	Tags       []ImageTag `json:"tags"       yaml:"tags"`
}

// ImageTag represents a single entry in the tag listing of a Docker Hub repository.
type ImageTag struct {
	Name        string     `json:"name"         yaml:"name"`
	Digest      string     `json:"digest"       yaml:"digest"`
	FullSize    int64      `json:"full_size"    yaml:"full_size"`    //nolint:tagliatelle
	LastUpdated string     `json:"last_updated" yaml:"last_updated"` //nolint:tagliatelle
	Images      []Platform `json:"images"       yaml:"images"`
}

// ImageTagInfo represents the details of a single tag, qualified by its repository name.
type ImageTagInfo struct {
	Name        string     `json:"name"         yaml:"name"`
	Tag         string     `json:"tag"          yaml:"tag"`
	Digest      string     `json:"digest"       yaml:"digest"`
	FullSize    int64      `json:"full_size"    yaml:"full_size"`    //nolint:tagliatelle
	LastUpdated string     `json:"last_updated" yaml:"last_updated"` //nolint:tagliatelle
	Images      []Platform `json:"images"       yaml:"images"`
}

// Platform describes the image built for a specific OS and architecture.
type Platform struct {
	Architecture string `json:"architecture"      yaml:"architecture"`
	OS           string `json:"os"                yaml:"os"`
	Variant      string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Size         int64  `json:"size"              yaml:"size"`
	Digest       string `json:"digest,omitempty"  yaml:"digest,omitempty"`
}

// NormalizeImageName trims the name and qualifies images without a namespace with the official namespace,
// e.g. "nginx" becomes "library/nginx" while "bitnami/nginx" is left unchanged.
func NormalizeImageName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return ""
	}
	if !strings.Contains(name, "/") {
		return officialNamespace + "/" + name
	}
	return name
}
