package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/api"
	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/config"
	"github.com/oborchers/mcp-server-pacman/internal/flags"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/server"
)

// APICmd should be used to represent the 'api' command.
type APICmd struct {
	*cmd.BaseCmd
	Addr  string
	NoMCP bool
}

// NewAPICmd creates a newly configured (Cobra) command.
func NewAPICmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &APICmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "api [--addr] [--no-mcp]",
		Short: "Launches the REST API",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		fmt.Sprintf("Address for the API to bind (defaults to the config file value, or %s)", config.DefaultAPIAddr),
	)

	cobraCommand.Flags().BoolVar(
		&c.NoMCP,
		"no-mcp",
		false,
		"Do not serve the streamable HTTP MCP endpoint alongside the API",
	)

	return cobraCommand, nil
}

func (c *APICmd) longDescription() string {
	return fmt.Sprintf(
		"Launches a REST API over the same lookups the MCP server offers, documented with OpenAPI at /docs.\n\n"+
			"Routes are served under /api/%s, and the MCP server is mounted at %s unless --no-mcp is set.",
		api.APIVersion,
		api.MCPPath,
	)
}

func (c *APICmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	settings, err := c.Settings()
	if err != nil {
		return err
	}

	addr := settings.API.Addr
	if v := strings.TrimSpace(c.Addr); v != "" {
		addr = v
	}

	reg, err := c.CreateRegistry(settings)
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		Packages: reg,
		Health:   reg.Health(),
		Cache:    reg,
	}
	if reg.Indices().Contains(packages.IndexDocker) {
		deps.Images = reg
	}

	opts := []api.Option{
		api.WithCORS(corsConfig(settings.API.CORS)),
		api.WithShutdownTimeout(settings.API.Shutdown),
	}

	if !c.NoMCP {
		mcpSrv, err := server.New(logger, reg, cmd.Version())
		if err != nil {
			return err
		}
		handler, err := mcpSrv.HTTPHandler(server.TransportStreamableHTTP)
		if err != nil {
			return err
		}
		opts = append(opts, api.WithMCPHandler(handler))
	}

	srv, err := api.NewServer(logger, deps, addr, cmd.Version(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	banner := fmt.Sprintf("%s API running.\n\n"+
		"  Local API:\thttp://%s/api/%s\n"+
		"  OpenAPI UI:\thttp://%s/docs\n",
		cmd.AppName, addr, api.APIVersion, addr)
	if !c.NoMCP {
		banner += fmt.Sprintf("  MCP:\t\thttp://%s%s\n", addr, api.MCPPath)
	}
	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}
	banner += "\nPress Ctrl+C to stop.\n\n"
	_, _ = fmt.Fprint(cobraCmd.ErrOrStderr(), banner)

	select {
	case <-ctx.Done():
		logger.Info("Shutting down API")
		return <-runErr
	case err := <-runErr:
		if err != nil {
			logger.Error("API exited with error", "error", err)
		}
		return err
	}
}

func corsConfig(s config.CORSSettings) api.CORSConfig {
	return api.CORSConfig{
		Enabled:          s.Enabled,
		AllowCredentials: s.AllowCredentials,
		AllowedHeaders:   s.AllowedHeaders,
		AllowMethods:     s.AllowMethods,
		AllowOrigins:     s.AllowOrigins,
		ExposedHeaders:   s.ExposedHeaders,
		MaxAge:           s.MaxAge,
	}
}
