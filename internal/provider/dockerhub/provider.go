// Package dockerhub queries Docker Hub for container images and their tags.
package dockerhub

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
	"github.com/oborchers/mcp-server-pacman/internal/registry"
)

const (
	// DefaultBaseURL is the public Docker Hub API.
	DefaultBaseURL = "https://hub.docker.com"

	// webURL is where repositories are browsed by humans.
	webURL = "https://hub.docker.com"
)

// Ensure Provider implements ImageProvider
var _ registry.ImageProvider = (*Provider)(nil)

// Provider implements the ImageProvider interface for Docker Hub.
type Provider struct {
	client  *httpclient.Client
	baseURL string
	logger  hclog.Logger
}

// NewProvider creates a Docker Hub provider.
func NewProvider(logger hclog.Logger, client *httpclient.Client, opt ...provider.Option) (*Provider, error) {
	opts, err := provider.NewOptions(DefaultBaseURL, opt...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:  client,
		baseURL: opts.BaseURL,
		logger:  logger.Named(string(packages.IndexDocker)),
	}, nil
}

func (p *Provider) ID() packages.Index {
	return packages.IndexDocker
}

// SearchImages implements the ImageProvider interface for Provider.
func (p *Provider) SearchImages(ctx context.Context, query string, limit int) ([]packages.Image, error) {
	u := p.baseURL + "/v2/search/repositories/?" + url.Values{
		"query":     {query},
		"page_size": {strconv.Itoa(limit)},
	}.Encode()

	resp, err := httpclient.GetJSON[SearchResponse](ctx, p.client, u)
	if err != nil {
		return nil, provider.Wrap(err, "search Docker Hub", "Docker Hub search results")
	}

	found := resp.Results
	if len(found) > limit {
		found = found[:limit]
	}

	results, err := provider.ConvertAll[packages.Image](found)
	if err != nil {
		return nil, provider.Wrap(provider.ParseError(u, "%v", err), "search Docker Hub", "Docker Hub search results")
	}

	return results, nil
}

// Tags implements the ImageProvider interface for Provider.
// name must already be qualified with its namespace, e.g. library/nginx.
func (p *Provider) Tags(ctx context.Context, name string, limit int) (packages.ImageTags, error) {
	u := p.repositoryURL(name) + "/tags/?" + url.Values{
		"page_size": {strconv.Itoa(limit)},
		"ordering":  {"last_updated"},
	}.Encode()

	resp, err := httpclient.GetJSON[TagsResponse](ctx, p.client, u)
	if err != nil {
		return packages.ImageTags{}, provider.Wrap(err, "get image tags from Docker Hub", "Docker Hub tags")
	}

	found := resp.Results
	if len(found) > limit {
		found = found[:limit]
	}

	tags, err := provider.ConvertAll[packages.ImageTag](found)
	if err != nil {
		return packages.ImageTags{}, provider.Wrap(
			provider.ParseError(u, "%v", err),
			"get image tags from Docker Hub",
			"Docker Hub tags",
		)
	}

	return packages.ImageTags{
		Name:       name,
		Repository: RepositoryWebURL(name),
		TagCount:   resp.Count,
		Tags:       tags,
	}, nil
}

// Tag implements the ImageProvider interface for Provider.
func (p *Provider) Tag(ctx context.Context, name string, tag string) (packages.ImageTagInfo, error) {
	u := p.repositoryURL(name) + "/tags/" + url.PathEscape(tag)

	resp, err := httpclient.GetJSON[Tag](ctx, p.client, u)
	if err != nil {
		return packages.ImageTagInfo{}, provider.Wrap(err, "get image tag info from Docker Hub", "Docker Hub tag info")
	}
	if resp.Name == "" {
		resp.Name = tag
	}

	return resp.info(name), nil
}

func (p *Provider) repositoryURL(name string) string {
	parts := strings.Split(name, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return p.baseURL + "/v2/repositories/" + strings.Join(parts, "/")
}

// RepositoryWebURL returns the Docker Hub page of the named repository.
// Official images live under /_/ rather than /r/library/.
func RepositoryWebURL(name string) string {
	if repo, ok := strings.CutPrefix(name, "library/"); ok {
		return webURL + "/_/" + repo
	}
	return webURL + "/r/" + name
}
