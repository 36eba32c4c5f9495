package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oborchers/mcp-server-pacman/internal/cmd"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/printer"
)

// NewDockerCmd creates the 'docker' command, grouping the Docker Hub lookups.
func NewDockerCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "docker <command>",
		Short: "Searches Docker Hub images and tags",
		Long: "Searches Docker Hub images and tags.\n\n" +
			"Official images may be given without the 'library/' namespace, e.g. 'nginx'.",
	}

	fns := []func(baseCmd *cmd.BaseCmd) (*cobra.Command, error){
		NewDockerSearchCmd,
		NewDockerTagsCmd,
		NewDockerTagCmd,
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

type DockerSearchCmd struct {
	*cmd.BaseCmd
	Limit  int
	Format cmd.OutputFormat
}

func NewDockerSearchCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &DockerSearchCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "search <query>",
		Short: "Searches Docker Hub for images matching a query",
		Args:  cobra.ExactArgs(1),
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

func (c *DockerSearchCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler[packages.Image](c.Format, cobraCmd.OutOrStdout(), printer.NewImagePrinter())
	if err != nil {
		return err
	}

	reg, err := newRegistry(c.BaseCmd)
	if err != nil {
		return err
	}

	results, err := reg.SearchImages(cobraCmd.Context(), packages.ImageSearchRequest{
		Query: args[0],
		Limit: c.Limit,
	})
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResults(results...)
}

type DockerTagsCmd struct {
	*cmd.BaseCmd
	Limit  int
	Format cmd.OutputFormat
}

func NewDockerTagsCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &DockerTagsCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "tags <image>",
		Short: "Lists the most recent tags of a Docker Hub image",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	cobraCommand.Flags().IntVar(
		&c.Limit,
		"limit",
		packages.DefaultTagLimit,
		fmt.Sprintf("Maximum number of tags (1-%d)", packages.MaxTagLimit),
	)

	bindFormatFlag(cobraCommand, &c.Format)

	return cobraCommand, nil
}

func (c *DockerTagsCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler[packages.ImageTags](c.Format, cobraCmd.OutOrStdout(), printer.NewImageTagsPrinter())
	if err != nil {
		return err
	}

	reg, err := newRegistry(c.BaseCmd)
	if err != nil {
		return err
	}

	tags, err := reg.ImageTags(cobraCmd.Context(), packages.ImageInfoRequest{
		Name:  args[0],
		Limit: c.Limit,
	})
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(tags)
}

type DockerTagCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat
}

func NewDockerTagCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &DockerTagCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "tag <image> <tag>",
		Short: "Shows detailed information about a single Docker Hub image tag",
		Args:  cobra.ExactArgs(2),
		RunE:  c.run,
	}

	bindFormatFlag(cobraCommand, &c.Format)

	return cobraCommand, nil
}

func (c *DockerTagCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler[packages.ImageTagInfo](
		c.Format,
		cobraCmd.OutOrStdout(),
		printer.NewImageTagInfoPrinter(),
	)
	if err != nil {
		return err
	}

	reg, err := newRegistry(c.BaseCmd)
	if err != nil {
		return err
	}

	info, err := reg.ImageTag(cobraCmd.Context(), packages.ImageInfoRequest{
		Name: args[0],
		Tag:  args[1],
	})
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(info)
}
