package server

import (
	"context"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

type fakeRegistry struct {
	indices packages.Indices
	err     error

	searchReq packages.SearchRequest
	infoReq   packages.InfoRequest
	imageReq  packages.ImageInfoRequest
}

func (f *fakeRegistry) Search(_ context.Context, req packages.SearchRequest) ([]packages.Summary, error) {
	f.searchReq = req
	if f.err != nil {
		return nil, f.err
	}
	if req.Query == "nothing" {
		return nil, nil
	}
	return []packages.Summary{{Name: req.Query, Version: "1.0.0", Description: "A <test> package"}}, nil
}

func (f *fakeRegistry) Info(_ context.Context, req packages.InfoRequest) (packages.Details, error) {
	f.infoReq = req
	if f.err != nil {
		return packages.Details{}, f.err
	}
	version := req.Version
	if version == "" {
		version = "2.0.0"
	}
	return packages.Details{Name: req.Name, Version: version, License: "MIT"}, nil
}

func (f *fakeRegistry) SearchImages(_ context.Context, req packages.ImageSearchRequest) ([]packages.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []packages.Image{{Name: req.Query, IsOfficial: true}}, nil
}

func (f *fakeRegistry) ImageTags(_ context.Context, req packages.ImageInfoRequest) (packages.ImageTags, error) {
	f.imageReq = req
	if f.err != nil {
		return packages.ImageTags{}, f.err
	}
	return packages.ImageTags{
		Name:     packages.NormalizeImageName(req.Name),
		TagCount: 1,
		Tags:     []packages.ImageTag{{Name: "latest"}},
	}, nil
}

func (f *fakeRegistry) ImageTag(_ context.Context, req packages.ImageInfoRequest) (packages.ImageTagInfo, error) {
	f.imageReq = req
	if f.err != nil {
		return packages.ImageTagInfo{}, f.err
	}
	return packages.ImageTagInfo{Name: packages.NormalizeImageName(req.Name), Tag: req.Tag}, nil
}

func (f *fakeRegistry) Indices() packages.Indices {
	return f.indices
}

func (f *fakeRegistry) PackageIndices() packages.Indices {
	var out packages.Indices
	for _, idx := range f.indices {
		if idx != packages.IndexDocker {
			out = append(out, idx)
		}
	}
	return out
}

func allIndices() packages.Indices {
	return packages.Indices{packages.IndexPyPI, packages.IndexNpm, packages.IndexCrates, packages.IndexDocker}
}

func newTestClient(t *testing.T, reg Registry) *client.Client {
	t.Helper()

	s, err := New(hclog.NewNullLogger(), reg, "test")
	require.NoError(t, err)

	c, err := client.NewInProcessClient(s.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	var initReq mcp.InitializeRequest
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "0.0.1"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)

	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)

	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)

	return text.Text, res.IsError
}

func getPrompt(t *testing.T, c *client.Client, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	t.Helper()

	var req mcp.GetPromptRequest
	req.Params.Name = name
	req.Params.Arguments = args

	return c.GetPrompt(context.Background(), req)
}

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()

	require.Len(t, res.Messages, 1)
	require.Equal(t, mcp.RoleUser, res.Messages[0].Role)
	text, ok := mcp.AsTextContent(res.Messages[0].Content)
	require.True(t, ok)

	return text.Text
}

func TestNew_NilRegistry(t *testing.T) {
	t.Parallel()

	_, err := New(hclog.NewNullLogger(), nil, "test")
	require.Error(t, err)
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name     string
		indices  packages.Indices
		expected []string
	}{
		{
			name:     "all indices",
			indices:  allIndices(),
			expected: []string{ToolDockerImageInfo, ToolPackageInfo, ToolSearchDockerImage, ToolSearchPackage},
		},
		{
			name:     "packages only",
			indices:  packages.Indices{packages.IndexPyPI},
			expected: []string{ToolPackageInfo, ToolSearchPackage},
		},
		{
			name:     "docker only",
			indices:  packages.Indices{packages.IndexDocker},
			expected: []string{ToolDockerImageInfo, ToolSearchDockerImage},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, &fakeRegistry{indices: tt.indices})

			res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
			require.NoError(t, err)

			names := make([]string, 0, len(res.Tools))
			for _, tool := range res.Tools {
				names = append(names, tool.Name)
			}
			require.ElementsMatch(t, tt.expected, names)
		})
	}
}

func TestServer_SearchPackage(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{indices: allIndices()}
	c := newTestClient(t, reg)

	text, isErr := callTool(t, c, ToolSearchPackage, map[string]any{"index": "pypi", "query": "requests"})
	require.False(t, isErr)
	require.Equal(t, `Search results for 'requests' on pypi:
[
  {
    "name": "requests",
    "version": "1.0.0",
    "description": "A <test> package"
  }
]`, text)
	require.Equal(t, packages.SearchRequest{Index: packages.IndexPyPI, Query: "requests"}, reg.searchReq)

	_, isErr = callTool(t, c, ToolSearchPackage, map[string]any{"index": "npm", "query": "express", "limit": 10})
	require.False(t, isErr)
	require.Equal(t, 10, reg.searchReq.Limit)
}

func TestServer_SearchPackage_EmptyResults(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeRegistry{indices: allIndices()})

	text, isErr := callTool(t, c, ToolSearchPackage, map[string]any{"index": "crates", "query": "nothing"})
	require.False(t, isErr)
	require.Equal(t, "Search results for 'nothing' on crates:\n[]", text)
}

func TestServer_SearchPackage_InvalidArguments(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name string
		args map[string]any
	}{
		{name: "missing query", args: map[string]any{"index": "pypi"}},
		{name: "missing index", args: map[string]any{"query": "requests"}},
		{name: "unknown index", args: map[string]any{"index": "maven", "query": "junit"}},
		{name: "limit too low", args: map[string]any{"index": "pypi", "query": "requests", "limit": 0}},
		{name: "limit too high", args: map[string]any{"index": "pypi", "query": "requests", "limit": 50}},
		{name: "limit not a number", args: map[string]any{"index": "pypi", "query": "requests", "limit": "ten"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, &fakeRegistry{indices: allIndices()})

			text, isErr := callTool(t, c, ToolSearchPackage, tt.args)
			require.True(t, isErr)
			require.Contains(t, text, "Bad request: invalid arguments")
		})
	}
}

func TestServer_PackageInfo(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{indices: allIndices()}
	c := newTestClient(t, reg)

	text, isErr := callTool(t, c, ToolPackageInfo, map[string]any{"index": "npm", "name": "express", "version": "4.17.0"})
	require.False(t, isErr)
	require.Equal(t, `Package information for express on npm:
{
  "name": "express",
  "version": "4.17.0",
  "description": "",
  "license": "MIT"
}`, text)
	require.Equal(t, packages.InfoRequest{Index: packages.IndexNpm, Name: "express", Version: "4.17.0"}, reg.infoReq)
}

func TestServer_ToolErrors(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "upstream status",
			err:      fmt.Errorf("failed to get package info from PyPI - status code 500: %w", errors.ErrUpstreamStatus),
			expected: "Failed to get package info from PyPI - status code 500",
		},
		{
			name:     "not found",
			err:      fmt.Errorf("failed to get package info from PyPI - status code 404: %w", errors.ErrPackageNotFound),
			expected: "Failed to get package info from PyPI - status code 404",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, &fakeRegistry{indices: allIndices(), err: tt.err})

			text, isErr := callTool(t, c, ToolPackageInfo, map[string]any{"index": "pypi", "name": "flask"})
			require.True(t, isErr)
			require.Contains(t, text, tt.expected)
		})
	}
}

func TestServer_DockerTools(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{indices: allIndices()}
	c := newTestClient(t, reg)

	text, isErr := callTool(t, c, ToolSearchDockerImage, map[string]any{"query": "nginx"})
	require.False(t, isErr)
	require.Contains(t, text, "Search results for 'nginx' on Docker Hub:")
	require.Contains(t, text, `"is_official": true`)

	text, isErr = callTool(t, c, ToolDockerImageInfo, map[string]any{"name": "nginx"})
	require.False(t, isErr)
	require.Contains(t, text, "Tags for library/nginx on Docker Hub:")
	require.Empty(t, reg.imageReq.Tag)

	text, isErr = callTool(t, c, ToolDockerImageInfo, map[string]any{"name": "nginx", "tag": "1.25"})
	require.False(t, isErr)
	require.Contains(t, text, "Tag information for library/nginx:1.25 on Docker Hub:")
	require.Equal(t, "1.25", reg.imageReq.Tag)

	_, isErr = callTool(t, c, ToolDockerImageInfo, map[string]any{"name": "nginx", "limit": 101})
	require.True(t, isErr)
}

func TestServer_ListPrompts(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeRegistry{indices: allIndices()})

	res, err := c.ListPrompts(context.Background(), mcp.ListPromptsRequest{})
	require.NoError(t, err)

	descriptions := make(map[string]string, len(res.Prompts))
	for _, p := range res.Prompts {
		descriptions[p.Name] = p.Description
	}

	require.Equal(t, map[string]string{
		"search_pypi":   "Search for Python packages on PyPI",
		"pypi_info":     "Get information about a specific Python package",
		"search_npm":    "Search for JavaScript packages on npm",
		"npm_info":      "Get information about a specific JavaScript package",
		"search_crates": "Search for Rust packages on crates.io",
		"crates_info":   "Get information about a specific Rust package",
		"search_docker": "Search for container images on Docker Hub",
		"docker_info":   "Get information about a specific container image",
	}, descriptions)
}

func TestServer_Prompts(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeRegistry{indices: allIndices()})

	res, err := getPrompt(t, c, "search_npm", map[string]string{"query": "express"})
	require.NoError(t, err)
	require.Equal(t, "Search results for 'express' on npm", res.Description)
	require.Contains(t, promptText(t, res), "Results for 'express':\n[\n")

	res, err = getPrompt(t, c, "crates_info", map[string]string{"name": "serde", "version": "1.0.0"})
	require.NoError(t, err)
	require.Equal(t, "Information for serde on crates.io", res.Description)
	require.Contains(t, promptText(t, res), "Package information:\n{\n")
	require.Contains(t, promptText(t, res), `"version": "1.0.0"`)

	res, err = getPrompt(t, c, "docker_info", map[string]string{"name": "nginx"})
	require.NoError(t, err)
	require.Equal(t, "Information for nginx on Docker Hub", res.Description)
	require.Contains(t, promptText(t, res), "Image tags:")
}

func TestServer_Prompts_MissingArguments(t *testing.T) {
	t.Parallel()

	tc := []struct {
		prompt   string
		expected string
	}{
		{prompt: "search_pypi", expected: "Search query is required"},
		{prompt: "pypi_info", expected: "Package name is required"},
		{prompt: "search_docker", expected: "Search query is required"},
		{prompt: "docker_info", expected: "Image name is required"},
	}

	for _, tt := range tc {
		t.Run(tt.prompt, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, &fakeRegistry{indices: allIndices()})

			_, err := getPrompt(t, c, tt.prompt, map[string]string{})
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestServer_Prompts_UpstreamFailure(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to search PyPI - status code 503: %w", errors.ErrUpstreamStatus)
	c := newTestClient(t, &fakeRegistry{indices: allIndices(), err: err})

	res, err := getPrompt(t, c, "search_pypi", map[string]string{"query": "flask"})
	require.NoError(t, err)
	require.Equal(t, "Failed to search for 'flask'", res.Description)
	require.Contains(t, promptText(t, res), "Failed to search PyPI - status code 503")
}

func TestArgumentError(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, errNameRequired, errors.ErrBadRequest)
	require.Equal(t, "Package name is required", errNameRequired.Error())
}

func TestMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Failed to search", message(fmt.Errorf("failed to search")))
	require.Equal(t, "", message(fmt.Errorf("")))
}

func TestHTTPHandler(t *testing.T) {
	t.Parallel()

	s, err := New(hclog.NewNullLogger(), &fakeRegistry{indices: allIndices()}, "test")
	require.NoError(t, err)

	for _, tr := range []Transport{TransportStreamableHTTP, TransportSSE} {
		h, err := s.HTTPHandler(tr)
		require.NoError(t, err)
		require.NotNil(t, h)
	}

	_, err = s.HTTPHandler(TransportStdio)
	require.Error(t, err)
}
