package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const (
	// ToolSearchPackage searches a package index.
	ToolSearchPackage = "search_package"

	// ToolPackageInfo returns details of a single package.
	ToolPackageInfo = "package_info"

	// ToolSearchDockerImage searches Docker Hub.
	ToolSearchDockerImage = "search_docker_image"

	// ToolDockerImageInfo returns the tags of an image, or a single tag.
	ToolDockerImageInfo = "docker_image_info"
)

type searchPackageArgs struct {
	Index string `json:"index"`
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type packageInfoArgs struct {
	Index   string `json:"index"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type searchImageArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type imageInfoArgs struct {
	Name  string `json:"name"`
	Tag   string `json:"tag"`
	Limit int    `json:"limit"`
}

// registerTools adds the package tools when any package index is enabled, and the image tools when Docker Hub is.
func (s *Server) registerTools() error {
	var tools []server.ServerTool

	if indices := s.registry.PackageIndices(); len(indices) > 0 {
		names := indices.ToStrings()
		desc := fmt.Sprintf("Package index to search (%s)", indices.String())

		tools = append(tools,
			server.ServerTool{
				Tool: mcp.NewTool(ToolSearchPackage,
					mcp.WithDescription("Search for packages in package indices ("+displayNames(indices)+")"),
					mcp.WithString("index", mcp.Required(), mcp.Enum(names...), mcp.Description(desc)),
					mcp.WithString("query", mcp.Required(), mcp.Description("Package name or search query")),
					mcp.WithNumber("limit",
						mcp.Description("Maximum number of results to return"),
						mcp.DefaultNumber(packages.DefaultLimit),
						mcp.Min(packages.MinLimit),
						mcp.Max(packages.MaxLimit),
					),
					mcp.WithReadOnlyHintAnnotation(true),
					mcp.WithOpenWorldHintAnnotation(true),
				),
				Handler: s.handleSearchPackage,
			},
			server.ServerTool{
				Tool: mcp.NewTool(ToolPackageInfo,
					mcp.WithDescription("Get detailed information about a specific package"),
					mcp.WithString("index", mcp.Required(), mcp.Enum(names...),
						mcp.Description(fmt.Sprintf("Package index to query (%s)", indices.String()))),
					mcp.WithString("name", mcp.Required(), mcp.Description("Package name")),
					mcp.WithString("version", mcp.Description("Specific version to get info for (default: latest)")),
					mcp.WithReadOnlyHintAnnotation(true),
					mcp.WithOpenWorldHintAnnotation(true),
				),
				Handler: s.handlePackageInfo,
			},
		)
	}

	if s.registry.Indices().Contains(packages.IndexDocker) {
		tools = append(tools,
			server.ServerTool{
				Tool: mcp.NewTool(ToolSearchDockerImage,
					mcp.WithDescription("Search for container images on Docker Hub"),
					mcp.WithString("query", mcp.Required(), mcp.Description("Image name or search query")),
					mcp.WithNumber("limit",
						mcp.Description("Maximum number of results to return"),
						mcp.DefaultNumber(packages.DefaultLimit),
						mcp.Min(packages.MinLimit),
						mcp.Max(packages.MaxLimit),
					),
					mcp.WithReadOnlyHintAnnotation(true),
					mcp.WithOpenWorldHintAnnotation(true),
				),
				Handler: s.handleSearchDockerImage,
			},
			server.ServerTool{
				Tool: mcp.NewTool(ToolDockerImageInfo,
					mcp.WithDescription("Get information about a Docker Hub image: its tags, or a single tag when one is given"),
					mcp.WithString("name", mcp.Required(),
						mcp.Description("Image name, e.g. nginx or bitnami/nginx (official images need no namespace)")),
					mcp.WithString("tag", mcp.Description("Specific tag to get info for (default: list recent tags)")),
					mcp.WithNumber("limit",
						mcp.Description("Maximum number of tags to list"),
						mcp.DefaultNumber(packages.DefaultTagLimit),
						mcp.Min(packages.MinLimit),
						mcp.Max(packages.MaxTagLimit),
					),
					mcp.WithReadOnlyHintAnnotation(true),
					mcp.WithOpenWorldHintAnnotation(true),
				),
				Handler: s.handleDockerImageInfo,
			},
		)
	}

	for _, t := range tools {
		schema, err := compileSchema(t.Tool)
		if err != nil {
			return err
		}
		s.schemas[t.Tool.Name] = schema
	}

	s.mcp.AddTools(tools...)

	return nil
}

func (s *Server) handleSearchPackage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchPackageArgs
	if err := s.bind(req, &args); err != nil {
		return toolError(err), nil
	}

	s.logger.Debug("Tool call", "tool", req.Params.Name, "index", args.Index, "query", args.Query)

	results, err := s.registry.Search(ctx, packages.SearchRequest{
		Index: packages.Index(args.Index),
		Query: args.Query,
		Limit: args.Limit,
	})
	if err != nil {
		return toolError(err), nil
	}

	return textResult(fmt.Sprintf("Search results for '%s' on %s:", args.Query, args.Index), nonNil(results)), nil
}

func (s *Server) handlePackageInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args packageInfoArgs
	if err := s.bind(req, &args); err != nil {
		return toolError(err), nil
	}

	s.logger.Debug("Tool call", "tool", req.Params.Name, "index", args.Index, "name", args.Name, "version", args.Version)

	info, err := s.registry.Info(ctx, packages.InfoRequest{
		Index:   packages.Index(args.Index),
		Name:    args.Name,
		Version: args.Version,
	})
	if err != nil {
		return toolError(err), nil
	}

	return textResult(fmt.Sprintf("Package information for %s on %s:", args.Name, args.Index), info), nil
}

func (s *Server) handleSearchDockerImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchImageArgs
	if err := s.bind(req, &args); err != nil {
		return toolError(err), nil
	}

	s.logger.Debug("Tool call", "tool", req.Params.Name, "query", args.Query)

	results, err := s.registry.SearchImages(ctx, packages.ImageSearchRequest{Query: args.Query, Limit: args.Limit})
	if err != nil {
		return toolError(err), nil
	}

	return textResult(fmt.Sprintf("Search results for '%s' on Docker Hub:", args.Query), nonNil(results)), nil
}

func (s *Server) handleDockerImageInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args imageInfoArgs
	if err := s.bind(req, &args); err != nil {
		return toolError(err), nil
	}

	s.logger.Debug("Tool call", "tool", req.Params.Name, "name", args.Name, "tag", args.Tag)

	r := packages.ImageInfoRequest{Name: args.Name, Tag: args.Tag, Limit: args.Limit}

	if args.Tag != "" {
		info, err := s.registry.ImageTag(ctx, r)
		if err != nil {
			return toolError(err), nil
		}
		return textResult(fmt.Sprintf("Tag information for %s:%s on Docker Hub:", info.Name, info.Tag), info), nil
	}

	tags, err := s.registry.ImageTags(ctx, r)
	if err != nil {
		return toolError(err), nil
	}

	return textResult(fmt.Sprintf("Tags for %s on Docker Hub:", tags.Name), tags), nil
}

// nonNil keeps empty results rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func displayNames(indices packages.Indices) string {
	out := ""
	for i, idx := range indices {
		if i > 0 {
			out += ", "
		}
		out += idx.DisplayName()
	}
	return out
}
