// Package server exposes the package registry as a Model Context Protocol server.
package server

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const (
	// Name is the implementation name reported to MCP clients.
	Name = "mcp-pacman"

	instructions = "Search package indices (PyPI, npm, crates.io) and Docker Hub, " +
		"and look up package or image details. All tools are read-only."
)

// Registry is the subset of the package registry the MCP server needs.
type Registry interface {
	Search(ctx context.Context, req packages.SearchRequest) ([]packages.Summary, error)
	Info(ctx context.Context, req packages.InfoRequest) (packages.Details, error)
	SearchImages(ctx context.Context, req packages.ImageSearchRequest) ([]packages.Image, error)
	ImageTags(ctx context.Context, req packages.ImageInfoRequest) (packages.ImageTags, error)
	ImageTag(ctx context.Context, req packages.ImageInfoRequest) (packages.ImageTagInfo, error)
	Indices() packages.Indices
	PackageIndices() packages.Indices
}

// Server wires the registry into an MCP server.
// New should be used to create instances of Server.
type Server struct {
	mcp      *server.MCPServer
	registry Registry
	logger   hclog.Logger

	// schemas are the compiled input schemas of the registered tools, by tool name.
	schemas map[string]*gojsonschema.Schema
}

// New creates the MCP server, registering tools and prompts for every index the registry serves.
func New(logger hclog.Logger, reg Registry, version string) (*Server, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	s := &Server{
		registry: reg,
		logger:   logger.Named("mcp"),
		schemas:  make(map[string]*gojsonschema.Schema),
		mcp: server.NewMCPServer(
			Name,
			version,
			server.WithToolCapabilities(false),
			server.WithPromptCapabilities(false),
			server.WithInstructions(instructions),
			server.WithRecovery(),
		),
	}

	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerPrompts()

	return s, nil
}

// MCPServer returns the underlying MCP server, e.g. to mount it on an existing HTTP router.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}
