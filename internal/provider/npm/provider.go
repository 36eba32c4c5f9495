// Package npm queries the npm registry.
package npm

import (
	"context"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
	"github.com/oborchers/mcp-server-pacman/internal/registry"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// Ensure Provider implements PackageProvider
var _ registry.PackageProvider = (*Provider)(nil)

// Provider implements the PackageProvider interface for npm.
type Provider struct {
	client  *httpclient.Client
	baseURL string
	logger  hclog.Logger
}

// NewProvider creates an npm provider.
func NewProvider(logger hclog.Logger, client *httpclient.Client, opt ...provider.Option) (*Provider, error) {
	opts, err := provider.NewOptions(DefaultBaseURL, opt...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:  client,
		baseURL: opts.BaseURL,
		logger:  logger.Named(string(packages.IndexNpm)),
	}, nil
}

func (p *Provider) ID() packages.Index {
	return packages.IndexNpm
}

// Search implements the PackageSearcher interface for Provider.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]packages.Summary, error) {
	u := p.baseURL + "/-/v1/search?" + url.Values{"text": {query}, "size": {strconv.Itoa(limit)}}.Encode()

	resp, err := httpclient.GetJSON[SearchResponse](ctx, p.client, u)
	if err != nil {
		return nil, provider.SearchError(p.ID(), err)
	}

	objects := resp.Objects
	if len(objects) > limit {
		objects = objects[:limit]
	}

	results, err := provider.ConvertAll[packages.Summary](objects)
	if err != nil {
		return nil, provider.SearchError(p.ID(), provider.ParseError(u, "%v", err))
	}

	p.logger.Debug("Search complete", "query", query, "total", resp.Total, "returned", len(results))

	return results, nil
}

// Info implements the PackageResolver interface for Provider.
// Scoped names (e.g. @types/node) are requested with an encoded slash.
func (p *Provider) Info(ctx context.Context, name string, version string) (packages.Details, error) {
	if version != "" {
		u := p.baseURL + "/" + url.PathEscape(name) + "/" + url.PathEscape(version)

		m, err := httpclient.GetJSON[Manifest](ctx, p.client, u)
		if err != nil {
			return packages.Details{}, provider.InfoError(p.ID(), err)
		}

		return m.details(name, version), nil
	}

	u := p.baseURL + "/" + url.PathEscape(name)

	doc, err := httpclient.GetJSON[Packument](ctx, p.client, u)
	if err != nil {
		return packages.Details{}, provider.InfoError(p.ID(), err)
	}
	if doc.Name == "" {
		doc.Name = name
	}

	d, err := doc.ToDomainType()
	if err != nil {
		return packages.Details{}, provider.InfoError(p.ID(), provider.ParseError(u, "%v", err))
	}

	return d, nil
}
