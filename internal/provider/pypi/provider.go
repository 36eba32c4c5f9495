// Package pypi queries the Python Package Index.
package pypi

import (
	"context"
	"net/url"

	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
	"github.com/oborchers/mcp-server-pacman/internal/registry"
)

// DefaultBaseURL is the public PyPI deployment.
const DefaultBaseURL = "https://pypi.org"

// Ensure Provider implements PackageProvider
var _ registry.PackageProvider = (*Provider)(nil)

// Provider implements the PackageProvider interface for PyPI.
type Provider struct {
	client  *httpclient.Client
	baseURL string
	logger  hclog.Logger
}

// NewProvider creates a PyPI provider.
func NewProvider(logger hclog.Logger, client *httpclient.Client, opt ...provider.Option) (*Provider, error) {
	opts, err := provider.NewOptions(DefaultBaseURL, opt...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:  client,
		baseURL: opts.BaseURL,
		logger:  logger.Named(string(packages.IndexPyPI)),
	}, nil
}

func (p *Provider) ID() packages.Index {
	return packages.IndexPyPI
}

// Search implements the PackageSearcher interface for Provider.
// When the results page yields no snippets (e.g. PyPI served a bot challenge), an exact name
// lookup is attempted so a well-known package can still be found.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]packages.Summary, error) {
	u := p.baseURL + "/search/?" + url.Values{"q": {query}, "page": {"1"}}.Encode()

	body, err := p.client.Get(ctx, u, httpclient.AcceptHTML)
	if err != nil {
		return nil, provider.SearchError(p.ID(), err)
	}

	results, err := parseSearchResults(body, limit)
	if err != nil {
		return nil, provider.SearchError(p.ID(), provider.ParseError(u, "%v", err))
	}
	if len(results) > 0 {
		return results, nil
	}

	p.logger.Debug("No search snippets found, trying exact name lookup", "query", query)

	info, err := p.Info(ctx, query, "")
	if err != nil {
		p.logger.Debug("Exact name lookup failed", "query", query, "error", err)
		return []packages.Summary{}, nil
	}

	return []packages.Summary{{
		Index:       packages.IndexPyPI,
		Name:        info.Name,
		Version:     info.Version,
		Description: info.Description,
	}}, nil
}

// Info implements the PackageResolver interface for Provider.
func (p *Provider) Info(ctx context.Context, name string, version string) (packages.Details, error) {
	u := p.baseURL + "/pypi/" + url.PathEscape(name) + "/json"
	if version != "" {
		u = p.baseURL + "/pypi/" + url.PathEscape(name) + "/" + url.PathEscape(version) + "/json"
	}

	project, err := httpclient.GetJSON[Project](ctx, p.client, u)
	if err != nil {
		return packages.Details{}, provider.InfoError(p.ID(), err)
	}

	details, err := project.ToDomainType()
	if err != nil {
		return packages.Details{}, provider.InfoError(p.ID(), provider.ParseError(u, "%v", err))
	}

	return details, nil
}
