package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psantana5/textwrap/internal/demo"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the hyphenation example",
		Long: `Wrap a short sentence to 18 columns with en-US hyphenation. Without the
hyphenation feature, print how to enable it instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return demo.Run(cmd.OutOrStdout(), demo.Options{
				Features: opts.features,
				Loader:   opts.loader(),
			})
		},
	}
}
