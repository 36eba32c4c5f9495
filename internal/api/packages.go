package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// IndicesResponse is the response for GET /indices
type IndicesResponse struct {
	Body struct {
		Indices []string `doc:"Enabled package indices" json:"indices"`
	}
}

// PackageSearchRequest represents the incoming request for searching a package index.
type PackageSearchRequest struct {
	Index string `doc:"Package index to search"            example:"pypi"     path:"index"`
	Query string `doc:"Package name or search query"       example:"requests" query:"q"     required:"true"`
	Limit int    `doc:"Maximum number of results to return" default:"5" maximum:"49" minimum:"1" query:"limit"`
}

// PackageSearchResponse represents the wrapped API response for a package search.
type PackageSearchResponse struct {
	Body struct {
		Index   string             `doc:"Index that was searched" json:"index"`
		Query   string             `doc:"Search query"            json:"query"`
		Results []packages.Summary `doc:"Matching packages"       json:"results"`
	}
}

// PackageInfoRequest represents the incoming request for package details.
// The name is a query parameter since scoped npm packages contain a slash.
type PackageInfoRequest struct {
	Index   string `doc:"Package index to query"           example:"npm"     path:"index"`
	Name    string `doc:"Package name"                     example:"express" query:"name"  required:"true"`
	Version string `doc:"Specific version (default: latest)" example:"4.17.0" query:"version"`
}

// PackageInfoResponse represents the wrapped API response for package details.
type PackageInfoResponse struct {
	Body packages.Details
}

// RegisterPackageRoutes sets up package index API endpoint routes.
func RegisterPackageRoutes(routerAPI huma.API, svc PackageService, apiPathPrefix string) {
	packagesAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Packages"}

	huma.Register(
		packagesAPI,
		huma.Operation{
			OperationID: "listIndices",
			Method:      http.MethodGet,
			Path:        "/indices",
			Summary:     "List the enabled package indices",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*IndicesResponse, error) {
			resp := &IndicesResponse{}
			resp.Body.Indices = svc.PackageIndices().ToStrings()
			return resp, nil
		},
	)

	huma.Register(
		packagesAPI,
		huma.Operation{
			OperationID: "searchPackages",
			Method:      http.MethodGet,
			Path:        "/{index}/search",
			Summary:     "Search for packages in a package index",
			Tags:        tags,
		},
		func(ctx context.Context, input *PackageSearchRequest) (*PackageSearchResponse, error) {
			return handleSearchPackages(ctx, svc, input)
		},
	)

	huma.Register(
		packagesAPI,
		huma.Operation{
			OperationID: "getPackageInfo",
			Method:      http.MethodGet,
			Path:        "/{index}/info",
			Summary:     "Get detailed information about a specific package",
			Tags:        tags,
		},
		func(ctx context.Context, input *PackageInfoRequest) (*PackageInfoResponse, error) {
			return handlePackageInfo(ctx, svc, input)
		},
	)
}

func handleSearchPackages(
	ctx context.Context,
	svc PackageService,
	input *PackageSearchRequest,
) (*PackageSearchResponse, error) {
	results, err := svc.Search(ctx, packages.SearchRequest{
		Index: packages.Index(input.Index),
		Query: input.Query,
		Limit: input.Limit,
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []packages.Summary{}
	}

	resp := &PackageSearchResponse{}
	resp.Body.Index = input.Index
	resp.Body.Query = input.Query
	resp.Body.Results = results

	return resp, nil
}

func handlePackageInfo(ctx context.Context, svc PackageService, input *PackageInfoRequest) (*PackageInfoResponse, error) {
	info, err := svc.Info(ctx, packages.InfoRequest{
		Index:   packages.Index(input.Index),
		Name:    input.Name,
		Version: input.Version,
	})
	if err != nil {
		return nil, err
	}

	return &PackageInfoResponse{Body: info}, nil
}
