package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/psantana5/textwrap/internal/config"
	"github.com/psantana5/textwrap/internal/features"
	"github.com/psantana5/textwrap/pkg/textwrap"
)

type fillResult struct {
	Width int      `json:"width" yaml:"width"`
	Lines []string `json:"lines" yaml:"lines"`
}

func newFillCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill [text...]",
		Short: "Wrap text to the configured width",
		Long: `Wrap the arguments, or standard input when no arguments are given, to
--width columns. With --splitter dictionary, words are broken at the
hyphenation points of --lang; this needs the hyphenation feature.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.String("initial-indent", "", "prefix of the first line")
	flags.String("subsequent-indent", "", "prefix of every other line")
	flags.Bool("break-words", true, "break words longer than a line")
	flags.String("splitter", config.SplitterHyphen, "word splitter: none, hyphen or dictionary")

	opts.v.BindPFlag("initial_indent", flags.Lookup("initial-indent"))
	opts.v.BindPFlag("subsequent_indent", flags.Lookup("subsequent-indent"))
	opts.v.BindPFlag("break_words", flags.Lookup("break-words"))
	opts.v.BindPFlag("splitter", flags.Lookup("splitter"))
	return cmd
}

func runFill(cmd *cobra.Command, opts *rootOptions, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = strings.TrimSuffix(string(data), "\n")
	}

	splitter, err := opts.splitter()
	if err != nil {
		return err
	}

	cfg := opts.cfg
	wrapper := textwrap.WithSplitter(opts.width(), splitter)
	wrapper.InitialIndent = cfg.InitialIndent
	wrapper.SubsequentIndent = cfg.SubsequentIndent
	wrapper.BreakWords = cfg.BreakWords

	lines := wrapper.Wrap(text)
	if opts.structured() {
		if lines == nil {
			lines = []string{}
		}
		return opts.encode(cmd.OutOrStdout(), fillResult{Width: wrapper.Width, Lines: lines})
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}

// splitter builds the configured word splitter.
func (o *rootOptions) splitter() (textwrap.WordSplitter, error) {
	switch o.cfg.Splitter {
	case config.SplitterNone:
		return textwrap.NoHyphenation{}, nil
	case config.SplitterDictionary:
		if !o.features.Enabled(features.Hyphenation) {
			return nil, fmt.Errorf("the dictionary splitter needs the %s feature: build with -tags %s or set %s=%s",
				features.Hyphenation, features.Hyphenation, features.EnvVar, features.Hyphenation)
		}
		dict, err := o.loader().Load(o.cfg.LanguageCode())
		if err != nil {
			return nil, err
		}
		o.logger.Debug("Hyphenation corpus loaded", map[string]interface{}{"language": dict.Language()})
		return textwrap.DictionarySplitter{Dict: dict}, nil
	default:
		return textwrap.HyphenSplitter{}, nil
	}
}
