package cmd

import (
	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/registry"
)

// newRegistry resolves settings and builds the registry used by the lookup commands.
func newRegistry(c *cmd.BaseCmd) (*registry.Registry, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}

	return c.CreateRegistry(settings)
}
