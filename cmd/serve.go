package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/server"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	*cmd.BaseCmd
	Transport server.Transport
	Addr      string
}

func newServeCmd(baseCmd *cmd.BaseCmd) *ServeCmd {
	return &ServeCmd{
		BaseCmd:   baseCmd,
		Transport: server.TransportStdio,
	}
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := newServeCmd(baseCmd)

	cobraCommand := &cobra.Command{
		Use:   "serve [--transport] [--addr]",
		Short: "Serves the MCP server",
		Long: "Serves the MCP server over stdio (default), streamable HTTP or SSE.\n\n" +
			"HTTP transports stop gracefully on SIGINT/SIGTERM.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	c.bindFlags(cobraCommand.Flags())

	return cobraCommand, nil
}

func (c *ServeCmd) bindFlags(fs *pflag.FlagSet) {
	fs.Var(
		&c.Transport,
		"transport",
		fmt.Sprintf("Transport to serve MCP over (one of: %s, or 'http')", server.AllTransports().String()),
	)

	fs.StringVar(
		&c.Addr,
		"addr",
		server.DefaultAddr,
		"Address to bind when serving over HTTP",
	)
}

// run is called by the Cobra framework when the command is executed.
func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	settings, err := c.Settings()
	if err != nil {
		return err
	}

	reg, err := c.CreateRegistry(settings)
	if err != nil {
		return err
	}

	srv, err := server.New(logger, reg, cmd.Version())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if c.Transport.IsHTTP() {
		_, _ = fmt.Fprintf(
			cobraCmd.ErrOrStderr(),
			"Serving MCP (%s) on %s, press Ctrl+C to stop.\n",
			c.Transport.String(),
			c.Addr,
		)
	}

	return srv.Serve(ctx, server.ServeOptions{
		Transport:       c.Transport,
		Addr:            c.Addr,
		ShutdownTimeout: settings.API.Shutdown,
		Stdin:           cobraCmd.InOrStdin(),
		Stdout:          cobraCmd.OutOrStdout(),
	})
}
