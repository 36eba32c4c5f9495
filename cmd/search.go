package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/printer"
)

type SearchCmd struct {
	*cmd.BaseCmd
	Limit  int
	Format cmd.OutputFormat
}

func NewSearchCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &SearchCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "search <index> <query>",
		Short: "Searches a package index for packages matching a query",
		Long:  c.longDescription(),
		Args:  cobra.ExactArgs(2),
		RunE:  c.run,
	}

	cobraCommand.Flags().IntVar(
		&c.Limit,
		"limit",
		packages.DefaultLimit,
		fmt.Sprintf("Maximum number of results (%d-%d)", packages.MinLimit, packages.MaxLimit),
	)

	bindFormatFlag(cobraCommand, &c.Format)

	return cobraCommand, nil
}

func (c *SearchCmd) longDescription() string {
	return fmt.Sprintf(
		"Searches a package index (one of: %s) for packages matching a query.\n\n"+
			"Docker Hub is searched with 'docker search'.",
		packages.PackageIndices().String(),
	)
}

func (c *SearchCmd) run(cobraCmd *cobra.Command, args []string) error {
	idx, err := packages.ParseIndex(args[0])
	if err != nil {
		return err
	}

	handler, err := cmd.NewHandler[packages.Summary](c.Format, cobraCmd.OutOrStdout(), printer.NewSummaryPrinter(idx))
	if err != nil {
		return err
	}

	reg, err := newRegistry(c.BaseCmd)
	if err != nil {
		return err
	}

	results, err := reg.Search(cobraCmd.Context(), packages.SearchRequest{
		Index: idx,
		Query: args[1],
		Limit: c.Limit,
	})
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResults(results...)
}
