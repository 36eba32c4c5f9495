// Package crates queries crates.io, the Rust package registry.
package crates

import (
	"context"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
	"github.com/oborchers/mcp-server-pacman/internal/registry"
)

// DefaultBaseURL is the public crates.io deployment.
const DefaultBaseURL = "https://crates.io"

// Ensure Provider implements PackageProvider
var _ registry.PackageProvider = (*Provider)(nil)

// Provider implements the PackageProvider interface for crates.io.
// crates.io requires a descriptive User-Agent, which the httpclient always sends.
type Provider struct {
	client  *httpclient.Client
	baseURL string
	logger  hclog.Logger
}

// NewProvider creates a crates.io provider.
func NewProvider(logger hclog.Logger, client *httpclient.Client, opt ...provider.Option) (*Provider, error) {
	opts, err := provider.NewOptions(DefaultBaseURL, opt...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:  client,
		baseURL: opts.BaseURL,
		logger:  logger.Named(string(packages.IndexCrates)),
	}, nil
}

func (p *Provider) ID() packages.Index {
	return packages.IndexCrates
}

// Search implements the PackageSearcher interface for Provider.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]packages.Summary, error) {
	u := p.baseURL + "/api/v1/crates?" + url.Values{"q": {query}, "per_page": {strconv.Itoa(limit)}}.Encode()

	resp, err := httpclient.GetJSON[SearchResponse](ctx, p.client, u)
	if err != nil {
		return nil, provider.SearchError(p.ID(), err)
	}

	found := resp.Crates
	if len(found) > limit {
		found = found[:limit]
	}

	results, err := provider.ConvertAll[packages.Summary](found)
	if err != nil {
		return nil, provider.SearchError(p.ID(), provider.ParseError(u, "%v", err))
	}

	return results, nil
}

// Info implements the PackageResolver interface for Provider.
// When a version is requested, the crate and the version are fetched concurrently. A failed
// version lookup is tolerated, and the latest version's details are reported instead.
func (p *Provider) Info(ctx context.Context, name string, version string) (packages.Details, error) {
	crateURL := p.baseURL + "/api/v1/crates/" + url.PathEscape(name)

	var crate CrateResponse
	var detail *Version

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		crate, err = httpclient.GetJSON[CrateResponse](gctx, p.client, crateURL)
		return err
	})
	if version != "" {
		versionURL := crateURL + "/" + url.PathEscape(version)
		g.Go(func() error {
			resp, err := httpclient.GetJSON[VersionResponse](gctx, p.client, versionURL)
			if err != nil {
				p.logger.Debug("Version lookup failed, using latest", "name", name, "version", version, "error", err)
				return nil
			}
			detail = resp.Version
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return packages.Details{}, provider.InfoError(p.ID(), err)
	}

	d, err := crate.details(version, detail)
	if err != nil {
		return packages.Details{}, provider.InfoError(p.ID(), provider.ParseError(crateURL, "%v", err))
	}

	return d, nil
}
