package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/textwrap/internal/config"
	"github.com/psantana5/textwrap/internal/features"
	"github.com/psantana5/textwrap/internal/logging"
	"github.com/psantana5/textwrap/pkg/hyphenation"
	"github.com/psantana5/textwrap/pkg/textwrap"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// rootOptions is the state shared by every subcommand, resolved once in
// PersistentPreRunE.
type rootOptions struct {
	cfgFile string
	output  string

	v        *viper.Viper
	cfg      *config.Config
	logger   *logging.Logger
	features features.Set
}

// Execute runs the textwrap command tree
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the command tree with a fresh viper instance.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "textwrap",
		Short: "Wrap and hyphenate text",
		Long: `textwrap fills text to a given width, optionally breaking words with
Liang hyphenation patterns, and serves the same operations over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger != nil {
				return opts.logger.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.textwrap/config.yaml)")
	flags.Int("width", 80, "line width in columns (0 = terminal width)")
	flags.String("lang", string(hyphenation.EnglishUS), "hyphenation language")
	flags.String("patterns-dir", "", "directory searched first for hyph-<lang>.pat.txt files")
	flags.String("features", "", "comma separated features to enable at runtime (e.g. hyphenation)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")

	opts.v.BindPFlag("width", flags.Lookup("width"))
	opts.v.BindPFlag("language", flags.Lookup("lang"))
	opts.v.BindPFlag("patterns_dir", flags.Lookup("patterns-dir"))
	opts.v.BindPFlag("features", flags.Lookup("features"))
	opts.v.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newFillCmd(opts),
		newHyphenateCmd(opts),
		newLanguagesCmd(opts),
		newDemoCmd(opts),
		newServeCmd(opts),
		newKeygenCmd(opts),
		newCertCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// init reads configuration and sets up logging for the command being run
func (o *rootOptions) init(cmd *cobra.Command) error {
	switch o.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("invalid output format %q: want text, json or yaml", o.output)
	}

	cfg, err := config.Load(o.v, o.cfgFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.File != "" {
		o.logger, err = logging.NewFileLogger(cfg.Log.File, level, cfg.Log.JSON)
		if err != nil {
			return err
		}
	} else {
		o.logger = logging.NewLogger(level, cfg.Log.JSON)
		o.logger.SetOutput(cmd.ErrOrStderr())
	}

	o.features = features.Compiled().Merge(features.Parse(cfg.Features))
	o.logger.Debug("Configuration loaded", map[string]interface{}{
		"config":   o.v.ConfigFileUsed(),
		"language": cfg.Language,
		"features": o.features.String(),
	})
	return nil
}

// width resolves a configured width of 0 to the terminal width.
func (o *rootOptions) width() int {
	if o.cfg.Width == 0 {
		return textwrap.TerminalWidth(80)
	}
	return o.cfg.Width
}

func (o *rootOptions) loader() *hyphenation.Loader {
	return hyphenation.NewLoader(o.cfg.PatternsDir)
}

// structured reports whether output should be encoded as json or yaml
func (o *rootOptions) structured() bool {
	return o.output == outputJSON || o.output == outputYAML
}

// encode writes v as json or yaml according to --output
func (o *rootOptions) encode(w io.Writer, v interface{}) error {
	if o.output == outputYAML {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
