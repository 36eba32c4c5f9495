package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// ImageSearchRequest represents the incoming request for searching Docker Hub.
type ImageSearchRequest struct {
	Query string `doc:"Image name or search query"         example:"nginx" query:"q"     required:"true"`
	Limit int    `doc:"Maximum number of results to return" default:"5" maximum:"49" minimum:"1" query:"limit"`
}

// ImageSearchResponse represents the wrapped API response for an image search.
type ImageSearchResponse struct {
	Body struct {
		Query   string           `doc:"Search query"      json:"query"`
		Results []packages.Image `doc:"Matching images"   json:"results"`
	}
}

// ImageTagsRequest represents the incoming request for an image's tags.
type ImageTagsRequest struct {
	Name  string `doc:"Image name, official images need no namespace" example:"nginx" query:"name" required:"true"`
	Limit int    `doc:"Maximum number of tags to return" default:"25" maximum:"100" minimum:"1" query:"limit"`
}

// ImageTagsResponse represents the wrapped API response for an image's tags.
type ImageTagsResponse struct {
	Body packages.ImageTags
}

// ImageTagRequest represents the incoming request for a single image tag.
type ImageTagRequest struct {
	Name string `doc:"Image name, official images need no namespace" example:"nginx"  query:"name" required:"true"`
	Tag  string `doc:"Image tag"                                     example:"latest" path:"tag"`
}

// ImageTagResponse represents the wrapped API response for a single image tag.
type ImageTagResponse struct {
	Body packages.ImageTagInfo
}

// RegisterImageRoutes sets up Docker Hub API endpoint routes.
func RegisterImageRoutes(routerAPI huma.API, svc ImageService, apiPathPrefix string) {
	imagesAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Docker"}

	huma.Register(
		imagesAPI,
		huma.Operation{
			OperationID: "searchImages",
			Method:      http.MethodGet,
			Path:        "/search",
			Summary:     "Search for container images on Docker Hub",
			Tags:        tags,
		},
		func(ctx context.Context, input *ImageSearchRequest) (*ImageSearchResponse, error) {
			results, err := svc.SearchImages(ctx, packages.ImageSearchRequest{Query: input.Query, Limit: input.Limit})
			if err != nil {
				return nil, err
			}
			if results == nil {
				results = []packages.Image{}
			}

			resp := &ImageSearchResponse{}
			resp.Body.Query = input.Query
			resp.Body.Results = results
			return resp, nil
		},
	)

	huma.Register(
		imagesAPI,
		huma.Operation{
			OperationID: "listImageTags",
			Method:      http.MethodGet,
			Path:        "/tags",
			Summary:     "List the most recently updated tags of an image",
			Tags:        tags,
		},
		func(ctx context.Context, input *ImageTagsRequest) (*ImageTagsResponse, error) {
			listing, err := svc.ImageTags(ctx, packages.ImageInfoRequest{Name: input.Name, Limit: input.Limit})
			if err != nil {
				return nil, err
			}
			return &ImageTagsResponse{Body: listing}, nil
		},
	)

	huma.Register(
		imagesAPI,
		huma.Operation{
			OperationID: "getImageTag",
			Method:      http.MethodGet,
			Path:        "/tags/{tag}",
			Summary:     "Get information about a specific image tag",
			Tags:        tags,
		},
		func(ctx context.Context, input *ImageTagRequest) (*ImageTagResponse, error) {
			info, err := svc.ImageTag(ctx, packages.ImageInfoRequest{Name: input.Name, Tag: input.Tag})
			if err != nil {
				return nil, err
			}
			return &ImageTagResponse{Body: info}, nil
		},
	)
}
