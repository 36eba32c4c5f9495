// Command release derives the Docker image version and tags from a pushed git tag.
//
// Usage:
//
//	go run ./tools/release version <ref>          prints TAG_VERSION=<version>
//	go run ./tools/release tags <repository> <ref> prints one image tag per line
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	tagRefPrefix  = "refs/tags/"
	versionPrefix = "v"

	// envVarTagVersion is the variable written to $GITHUB_ENV.
	envVarTagVersion = "TAG_VERSION"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pacman.release",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		logger.Error("release failed", "error", err)
		os.Exit(1)
	}
}

func run(w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: release version <ref> | release tags <repository> <ref>")
	}

	switch args[0] {
	case "version":
		if len(args) != 2 {
			return fmt.Errorf("usage: release version <ref>")
		}
		v, err := VersionFromRef(args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s=%s\n", envVarTagVersion, v)
		return err
	case "tags":
		if len(args) != 3 {
			return fmt.Errorf("usage: release tags <repository> <ref>")
		}
		v, err := VersionFromRef(args[2])
		if err != nil {
			return err
		}
		for _, tag := range ImageTags(args[1], v) {
			if _, err := fmt.Fprintln(w, tag); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown command '%s'", args[0])
	}
}

// VersionFromRef returns the version of a release tag, given either the full ref (refs/tags/v1.2.3) or the tag (v1.2.3).
// Only the single leading 'v' is removed.
func VersionFromRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "refs/") && !strings.HasPrefix(ref, tagRefPrefix) {
		return "", fmt.Errorf("'%s' is not a tag ref", ref)
	}

	tag := strings.TrimPrefix(ref, tagRefPrefix)
	if !strings.HasPrefix(tag, versionPrefix) {
		return "", fmt.Errorf("tag '%s' does not start with '%s'", tag, versionPrefix)
	}

	v := strings.TrimPrefix(tag, versionPrefix)
	if v == "" {
		return "", fmt.Errorf("tag '%s' has no version", tag)
	}

	return v, nil
}

// ImageTags returns the tags an image built for version is pushed under.
func ImageTags(repository string, version string) []string {
	return []string{
		repository + ":latest",
		repository + ":" + version,
	}
}
