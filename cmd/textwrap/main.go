package main

import (
	"os"

	"github.com/psantana5/textwrap/cmd/textwrap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
