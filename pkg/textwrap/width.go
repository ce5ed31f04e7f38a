package textwrap

import (
	"os"
	"strconv"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// DisplayWidth returns the number of monospace columns s occupies. East
// Asian wide characters count as two columns, combining marks as zero.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TerminalWidth returns the width of the terminal attached to stdout, then
// $COLUMNS, then fallback.
func TerminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	if columns, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && columns > 0 {
		return columns
	}
	return fallback
}

// breakAt cuts s after the longest prefix that fits in room columns. At
// least one rune is always taken so callers make progress.
func breakAt(s string, room int) (head, tail string) {
	width := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if i > 0 && width+rw > room {
			return s[:i], s[i:]
		}
		width += rw
	}
	return s, ""
}
