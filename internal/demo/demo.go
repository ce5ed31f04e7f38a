// Package demo holds the two code paths of the hyphenation example: a
// usage hint when hyphenation is disabled, and wrapping a fixed sentence
// with a dictionary splitter when it is enabled.
package demo

import (
	"fmt"
	"io"

	"github.com/psantana5/textwrap/internal/features"
	"github.com/psantana5/textwrap/pkg/hyphenation"
	"github.com/psantana5/textwrap/pkg/textwrap"
)

// Defaults of the example.
const (
	Text     = "textwrap: a small library for wrapping text."
	Width    = 18
	Language = hyphenation.EnglishUS
)

var guidance = []string{
	"Please run this example as",
	"",
	"  go run -tags hyphenation ./examples/hyphenation",
}

// Options configure Run. Zero fields take the defaults above.
type Options struct {
	Features features.Set
	Loader   *hyphenation.Loader
	Language hyphenation.Language
	Width    int
	Text     string
}

// Guidance writes the hint shown when hyphenation is disabled.
func Guidance(w io.Writer) error {
	for _, line := range guidance {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Run prints the guidance or the wrapped text. A corpus that fails to load
// is returned as a *hyphenation.LoadError and nothing is written.
func Run(w io.Writer, opts Options) error {
	if !opts.Features.Enabled(features.Hyphenation) {
		return Guidance(w)
	}

	opts = withDefaults(opts)
	corpus, err := opts.Loader.Load(opts.Language)
	if err != nil {
		return err
	}

	wrapper := textwrap.WithSplitter(opts.Width, textwrap.DictionarySplitter{Dict: corpus})
	_, err = fmt.Fprintln(w, wrapper.Fill(opts.Text))
	return err
}

func withDefaults(opts Options) Options {
	if opts.Loader == nil {
		opts.Loader = hyphenation.NewLoader("")
	}
	if opts.Language == "" {
		opts.Language = Language
	}
	if opts.Width <= 0 {
		opts.Width = Width
	}
	if opts.Text == "" {
		opts.Text = Text
	}
	return opts
}
