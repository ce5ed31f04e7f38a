package textwrap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Wrapper wraps text to a fixed number of columns.
type Wrapper struct {
	// Width is the maximum line width in columns, indentation included.
	Width int
	// InitialIndent prefixes the first output line.
	InitialIndent string
	// SubsequentIndent prefixes every other output line.
	SubsequentIndent string
	// BreakWords allows cutting words longer than a line at the column
	// limit. When false such words overflow.
	BreakWords bool
	// Splitter decides where words may be hyphenated.
	Splitter WordSplitter
}

// New creates a wrapper that splits words at existing hyphens only.
func New(width int) *Wrapper {
	return WithSplitter(width, HyphenSplitter{})
}

// WithSplitter creates a wrapper using splitter to break words.
func WithSplitter(width int, splitter WordSplitter) *Wrapper {
	return &Wrapper{
		Width:      width,
		BreakWords: true,
		Splitter:   splitter,
	}
}

// Fill wraps text and joins the lines with newlines.
func (w *Wrapper) Fill(text string) string {
	return strings.Join(w.Wrap(text), "\n")
}

// Wrap breaks text into lines no wider than w.Width. Newlines in text are
// kept as hard breaks.
func (w *Wrapper) Wrap(text string) []string {
	if text == "" {
		return nil
	}

	l := &lineBuilder{wrapper: w}
	for _, para := range strings.Split(text, "\n") {
		words := splitWords(strings.TrimSuffix(para, "\r"))
		if len(words) == 0 {
			l.lines = append(l.lines, "")
			continue
		}

		if len(l.lines) == 0 {
			l.reset(w.InitialIndent)
		} else {
			l.reset(w.SubsequentIndent)
		}
		for i, wd := range words {
			// Leading whitespace survives only at the start of a paragraph.
			gap := ""
			if i == 0 || l.hasWord {
				gap = wd.gap
			}
			l.place(gap, wd.text)
		}
		if l.hasWord {
			l.emit()
		}
	}
	return l.lines
}

type word struct {
	gap  string
	text string
}

// splitWords cuts a line into words and the whitespace before each one. A
// no-break space is part of a word.
func splitWords(line string) []word {
	var words []word
	i := 0
	for i < len(line) {
		start := i
		for i < len(line) {
			r, size := utf8.DecodeRuneInString(line[i:])
			if !isBreakingSpace(r) {
				break
			}
			i += size
		}
		gapEnd := i
		for i < len(line) {
			r, size := utf8.DecodeRuneInString(line[i:])
			if isBreakingSpace(r) {
				break
			}
			i += size
		}
		if gapEnd == i {
			break
		}
		words = append(words, word{gap: line[start:gapEnd], text: line[gapEnd:i]})
	}
	return words
}

func isBreakingSpace(r rune) bool {
	return unicode.IsSpace(r) && r != '\u00a0'
}

type lineBuilder struct {
	wrapper *Wrapper
	lines   []string
	indent  string
	avail   int
	buf     strings.Builder
	width   int
	hasWord bool
}

func (l *lineBuilder) reset(indent string) {
	l.indent = indent
	l.avail = max(1, l.wrapper.Width-DisplayWidth(indent))
	l.buf.Reset()
	l.width = 0
	l.hasWord = false
}

func (l *lineBuilder) emit() {
	l.lines = append(l.lines, l.indent+l.buf.String())
	l.reset(l.wrapper.SubsequentIndent)
}

func (l *lineBuilder) add(parts ...string) {
	for _, p := range parts {
		l.buf.WriteString(p)
		l.width += DisplayWidth(p)
	}
	l.hasWord = true
}

// place puts text on the current line, moving to new lines and splitting
// the word as needed.
func (l *lineBuilder) place(gap, text string) {
	for {
		gapWidth := DisplayWidth(gap)
		if l.width+gapWidth+DisplayWidth(text) <= l.avail {
			l.add(gap, text)
			return
		}

		room := l.avail - l.width - gapWidth
		// Leading whitespace yields to a word that fits without it.
		if !l.hasWord && gap != "" && (room < 1 || DisplayWidth(text) <= l.avail) {
			gap = ""
			continue
		}
		if split, ok := l.bestSplit(text, room); ok {
			l.add(gap, split.Head, split.Hyphen)
			l.emit()
			text, gap = split.Tail, ""
			continue
		}

		if l.hasWord {
			l.emit()
			gap = ""
			continue
		}

		if !l.wrapper.BreakWords {
			l.add(gap, text)
			return
		}
		head, tail := breakAt(text, room)
		l.add(gap, head)
		l.emit()
		if tail == "" {
			return
		}
		text, gap = tail, ""
	}
}

// bestSplit picks the split with the longest head that fits in room.
func (l *lineBuilder) bestSplit(text string, room int) (Split, bool) {
	if l.wrapper.Splitter == nil || room <= 0 {
		return Split{}, false
	}
	splits := l.wrapper.Splitter.Split(text)
	for i := len(splits) - 1; i >= 0; i-- {
		s := splits[i]
		if s.Head != "" && DisplayWidth(s.Head)+DisplayWidth(s.Hyphen) <= room {
			return s, true
		}
	}
	return Split{}, false
}

// Wrap wraps text to width columns with the default wrapper.
func Wrap(text string, width int) []string {
	return New(width).Wrap(text)
}

// Fill wraps text to width columns and joins the lines with newlines.
func Fill(text string, width int) string {
	return New(width).Fill(text)
}
