package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/flags"
)

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute runs the root command, returning any error from the command that ran.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command.
// Without a subcommand it serves MCP over stdio, which is how MCP clients launch the server.
func NewRootCmd(c *RootCmd) (*cobra.Command, error) {
	serve := newServeCmd(c.BaseCmd)

	rootCmd := &cobra.Command{
		Use:           cmd.AppName,
		Short:         "An MCP server for searching PyPI, npm, crates.io and Docker Hub",
		Long:          c.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       cmd.Version(),
		Args:          cobra.NoArgs,
		RunE:          serve.run,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())
	serve.bindFlags(rootCmd.Flags())

	fns := []func(baseCmd *cmd.BaseCmd) (*cobra.Command, error){
		NewServeCmd,
		NewAPICmd,
		NewSearchCmd,
		NewInfoCmd,
		NewDockerCmd,
		NewConfigCmd,
		NewVersionCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `'mcp-server-pacman' is a Model Context Protocol server for package indices.
It searches PyPI, npm, crates.io and Docker Hub, and looks up package and image details.

Run without a command to serve MCP over stdio. The same lookups are available from the
command line ('search', 'info', 'docker') and over a REST API ('api').`
}
