package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/printer"
)

type InfoCmd struct {
	*cmd.BaseCmd
	Version string
	Format  cmd.OutputFormat
}

func NewInfoCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &InfoCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "info <index> <name>",
		Short: "Shows detailed information about a package",
		Long: "Shows detailed information about a package, the latest release unless --version is set.\n\n" +
			"Scoped npm packages are given in full, e.g. '@types/node'.",
		Args: cobra.ExactArgs(2),
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Version,
		"version",
		"",
		"Optional, specify the version of the package",
	)

	bindFormatFlag(cobraCommand, &c.Format)

	return cobraCommand, nil
}

func (c *InfoCmd) run(cobraCmd *cobra.Command, args []string) error {
	idx, err := packages.ParseIndex(args[0])
	if err != nil {
		return err
	}

	handler, err := cmd.NewHandler[packages.Details](c.Format, cobraCmd.OutOrStdout(), printer.NewDetailsPrinter())
	if err != nil {
		return err
	}

	reg, err := newRegistry(c.BaseCmd)
	if err != nil {
		return err
	}

	details, err := reg.Info(cobraCmd.Context(), packages.InfoRequest{
		Index:   idx,
		Name:    args[1],
		Version: c.Version,
	})
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(details)
}
