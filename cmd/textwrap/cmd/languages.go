package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List available hyphenation languages",
		Long:  `List the bundled pattern sets and those found in --patterns-dir.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			languages, err := opts.loader().Languages()
			if err != nil {
				return err
			}

			if opts.structured() {
				return opts.encode(cmd.OutOrStdout(), languages)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Code", "Name", "Left Min", "Right Min", "Source")
			for _, lang := range languages {
				table.Append(
					string(lang.Code),
					lang.Name,
					fmt.Sprintf("%d", lang.LeftMin),
					fmt.Sprintf("%d", lang.RightMin),
					lang.Source,
				)
			}
			return table.Render()
		},
	}
}
