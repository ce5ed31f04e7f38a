package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type hyphenatedWord struct {
	Word       string `json:"word" yaml:"word"`
	Hyphenated string `json:"hyphenated" yaml:"hyphenated"`
	Breaks     []int  `json:"breaks" yaml:"breaks"`
}

func newHyphenateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hyphenate <word>...",
		Short: "Show the hyphenation points of words",
		Long:  `Hyphenate each word with the patterns of --lang and print the result.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHyphenate(cmd, opts, args)
		},
	}
}

func runHyphenate(cmd *cobra.Command, opts *rootOptions, words []string) error {
	dict, err := opts.loader().Load(opts.cfg.LanguageCode())
	if err != nil {
		return err
	}

	results := make([]hyphenatedWord, 0, len(words))
	for _, word := range words {
		breaks := dict.Hyphenate(word)
		if breaks == nil {
			breaks = []int{}
		}
		results = append(results, hyphenatedWord{
			Word:       word,
			Hyphenated: dict.Hyphenated(word, "-"),
			Breaks:     breaks,
		})
	}

	if opts.structured() {
		return opts.encode(cmd.OutOrStdout(), results)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Word", "Hyphenated", "Breaks")
	for _, r := range results {
		table.Append(r.Word, r.Hyphenated, fmt.Sprint(r.Breaks))
	}
	return table.Render()
}
