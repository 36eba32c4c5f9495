package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// argumentError is returned to the client as a protocol error when a required prompt argument is missing.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string {
	return e.msg
}

func (e *argumentError) Unwrap() error {
	return errors.ErrBadRequest
}

var (
	errQueryRequired = &argumentError{msg: "Search query is required"}
	errNameRequired  = &argumentError{msg: "Package name is required"}
	errImageRequired = &argumentError{msg: "Image name is required"}
)

// language is the ecosystem each package index serves, as used in prompt descriptions.
var language = map[packages.Index]string{
	packages.IndexPyPI:   "Python",
	packages.IndexNpm:    "JavaScript",
	packages.IndexCrates: "Rust",
}

// registerPrompts adds a search and an info prompt for every index the registry serves.
func (s *Server) registerPrompts() {
	var prompts []server.ServerPrompt

	for _, idx := range s.registry.PackageIndices() {
		prompts = append(prompts,
			server.ServerPrompt{
				Prompt: mcp.NewPrompt("search_"+string(idx),
					mcp.WithPromptDescription(
						fmt.Sprintf("Search for %s packages on %s", language[idx], idx.DisplayName()),
					),
					mcp.WithArgument("query",
						mcp.ArgumentDescription("Package name or search query"),
						mcp.RequiredArgument(),
					),
				),
				Handler: s.searchPrompt(idx),
			},
			server.ServerPrompt{
				Prompt: mcp.NewPrompt(string(idx)+"_info",
					mcp.WithPromptDescription(
						fmt.Sprintf("Get information about a specific %s package", language[idx]),
					),
					mcp.WithArgument("name",
						mcp.ArgumentDescription("Package name"),
						mcp.RequiredArgument(),
					),
					mcp.WithArgument("version",
						mcp.ArgumentDescription("Specific version (optional)"),
					),
				),
				Handler: s.infoPrompt(idx),
			},
		)
	}

	if s.registry.Indices().Contains(packages.IndexDocker) {
		prompts = append(prompts,
			server.ServerPrompt{
				Prompt: mcp.NewPrompt("search_docker",
					mcp.WithPromptDescription("Search for container images on Docker Hub"),
					mcp.WithArgument("query",
						mcp.ArgumentDescription("Image name or search query"),
						mcp.RequiredArgument(),
					),
				),
				Handler: s.searchImagesPrompt,
			},
			server.ServerPrompt{
				Prompt: mcp.NewPrompt("docker_info",
					mcp.WithPromptDescription("Get information about a specific container image"),
					mcp.WithArgument("name",
						mcp.ArgumentDescription("Image name"),
						mcp.RequiredArgument(),
					),
					mcp.WithArgument("tag",
						mcp.ArgumentDescription("Specific tag (optional)"),
					),
				),
				Handler: s.imageInfoPrompt,
			},
		)
	}

	s.mcp.AddPrompts(prompts...)
}

func (s *Server) searchPrompt(idx packages.Index) server.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		query := strings.TrimSpace(req.Params.Arguments["query"])
		if query == "" {
			return nil, errQueryRequired
		}

		results, err := s.registry.Search(ctx, packages.SearchRequest{Index: idx, Query: query})
		if err != nil {
			return promptFailure(fmt.Sprintf("Failed to search for '%s'", query), err), nil
		}

		return promptResult(
			fmt.Sprintf("Search results for '%s' on %s", query, idx.DisplayName()),
			fmt.Sprintf("Results for '%s':", query),
			nonNil(results),
		), nil
	}
}

func (s *Server) infoPrompt(idx packages.Index) server.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		name := strings.TrimSpace(req.Params.Arguments["name"])
		if name == "" {
			return nil, errNameRequired
		}

		info, err := s.registry.Info(ctx, packages.InfoRequest{
			Index:   idx,
			Name:    name,
			Version: req.Params.Arguments["version"],
		})
		if err != nil {
			return promptFailure(fmt.Sprintf("Failed to get information for %s", name), err), nil
		}

		return promptResult(
			fmt.Sprintf("Information for %s on %s", name, idx.DisplayName()),
			"Package information:",
			info,
		), nil
	}
}

func (s *Server) searchImagesPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := strings.TrimSpace(req.Params.Arguments["query"])
	if query == "" {
		return nil, errQueryRequired
	}

	results, err := s.registry.SearchImages(ctx, packages.ImageSearchRequest{Query: query})
	if err != nil {
		return promptFailure(fmt.Sprintf("Failed to search for '%s'", query), err), nil
	}

	return promptResult(
		fmt.Sprintf("Search results for '%s' on Docker Hub", query),
		fmt.Sprintf("Results for '%s':", query),
		nonNil(results),
	), nil
}

func (s *Server) imageInfoPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := strings.TrimSpace(req.Params.Arguments["name"])
	if name == "" {
		return nil, errImageRequired
	}

	r := packages.ImageInfoRequest{Name: name, Tag: req.Params.Arguments["tag"]}
	desc := fmt.Sprintf("Information for %s on Docker Hub", name)

	if strings.TrimSpace(r.Tag) != "" {
		info, err := s.registry.ImageTag(ctx, r)
		if err != nil {
			return promptFailure(fmt.Sprintf("Failed to get information for %s", name), err), nil
		}
		return promptResult(desc, "Tag information:", info), nil
	}

	tags, err := s.registry.ImageTags(ctx, r)
	if err != nil {
		return promptFailure(fmt.Sprintf("Failed to get information for %s", name), err), nil
	}

	return promptResult(desc, "Image tags:", tags), nil
}

func promptResult(description string, heading string, v any) *mcp.GetPromptResult {
	body, err := indentJSON(v)
	if err != nil {
		return promptFailure(description, err)
	}
	return userPrompt(description, heading+"\n"+body)
}

// promptFailure reports an upstream failure as prompt content rather than a protocol error.
func promptFailure(description string, err error) *mcp.GetPromptResult {
	return userPrompt(description, message(err))
}

func userPrompt(description string, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(
		description,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	)
}
