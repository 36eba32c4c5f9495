package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
)

// bindFormatFlag registers the --format flag, defaulting to text output.
func bindFormatFlag(c *cobra.Command, format *cmd.OutputFormat) {
	*format = cmd.FormatText

	allowed := cmd.AllowedOutputFormats()
	c.Flags().Var(
		format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)
}
