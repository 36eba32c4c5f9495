package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
)

func NewVersionCmd(_ *cmd.BaseCmd) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cobraCmd.OutOrStdout(), "%s %s\n", cmd.AppName, cmd.Version())
			return err
		},
	}

	return cobraCommand, nil
}
