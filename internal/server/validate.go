package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
)

// compileSchema compiles the input schema of tool for argument validation.
func compileSchema(tool mcp.Tool) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input schema of tool '%s': %w", tool.Name, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid input schema of tool '%s': %w", tool.Name, err)
	}

	return schema, nil
}

// bind validates the tool call arguments against the tool's input schema, then decodes them into target.
func (s *Server) bind(req mcp.CallToolRequest, target any) error {
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}

	if schema, ok := s.schemas[req.Params.Name]; ok {
		result, err := schema.Validate(gojsonschema.NewGoLoader(args))
		if err != nil {
			return fmt.Errorf("%w: invalid arguments: %w", errors.ErrBadRequest, err)
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return fmt.Errorf("%w: invalid arguments: %s", errors.ErrBadRequest, strings.Join(msgs, "; "))
		}
	}

	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: invalid arguments: %w", errors.ErrBadRequest, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: invalid arguments: %w", errors.ErrBadRequest, err)
	}

	return nil
}
