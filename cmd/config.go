package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/config"
	"github.com/oborchers/mcp-server-pacman/internal/flags"
)

// NewConfigCmd creates the 'config' command, grouping the config file commands.
func NewConfigCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "config <command>",
		Short: "Manages the config file",
	}

	fns := []func(baseCmd *cmd.BaseCmd) (*cobra.Command, error){
		NewConfigInitCmd,
		NewConfigPathCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd)
		if err != nil {
			return nil, err
		}
		cobraCommand.AddCommand(tempCmd)
	}

	return cobraCommand, nil
}

type ConfigInitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

func NewConfigInitCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &ConfigInitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: &config.DefaultLoader{},
	}

	cobraCommand := &cobra.Command{
		Use:   "init",
		Short: "Creates a config file with every setting commented out",
		Long: fmt.Sprintf(
			"Creates a config file with every setting commented out.\n\n"+
				"The file is created in the user config directory, unless the `--%s` flag "+
				"or the `%s` environment variable name another path.",
			flags.FlagNameConfigFile,
			flags.EnvVarConfigFile,
		),
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	return cobraCommand, nil
}

func (c *ConfigInitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := c.cfgInitializer.Init(path); err != nil {
		c.Logger().Error("Failed to initialize config file", "path", path, "error", err)
		return fmt.Errorf("error initializing config file: %w", err)
	}

	if _, err := fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Config file created: %s\n", path); err != nil {
		return err
	}

	return nil
}

// NewConfigPathCmd creates the 'config path' command.
func NewConfigPathCmd(_ *cmd.BaseCmd) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "path",
		Short: "Prints the path of the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cobraCmd.OutOrStdout(), path)
			return err
		},
	}

	return cobraCommand, nil
}

// configPath returns the config file named by flags, falling back to the default location.
func configPath() (string, error) {
	if path := strings.TrimSpace(flags.ConfigFile); path != "" {
		return path, nil
	}

	return config.DefaultPath()
}
