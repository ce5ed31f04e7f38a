package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/textwrap/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Commands for inspecting the effective configuration and generating a config file.`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Long:  `Print the configuration after defaults, config file, environment and flags are applied.`,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.output == outputJSON {
					return opts.encode(cmd.OutOrStdout(), opts.cfg)
				}
				yamlOpts := *opts
				yamlOpts.output = outputYAML
				return yamlOpts.encode(cmd.OutOrStdout(), opts.cfg)
			},
		},
		&cobra.Command{
			Use:   "example",
			Short: "Print an example config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.ExampleConfig)
				return err
			},
		},
	)
	return configCmd
}
