package textwrap

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Split is one way of breaking a word across two lines: Head and Hyphen end
// the first line, Tail starts the next one.
type Split struct {
	Head   string
	Hyphen string
	Tail   string
}

// WordSplitter finds the places where a word may be broken.
type WordSplitter interface {
	// Split returns the candidate splits of word ordered by head length.
	Split(word string) []Split
}

// NoHyphenation never splits words.
type NoHyphenation struct{}

// Split implements WordSplitter.
func (NoHyphenation) Split(string) []Split {
	return nil
}

// HyphenSplitter splits words after hyphens that sit between alphanumeric
// characters, so "--foo-bar" only splits before "bar".
type HyphenSplitter struct{}

// Split implements WordSplitter.
func (HyphenSplitter) Split(word string) []Split {
	var splits []Split
	prev := utf8.RuneError
	for i, r := range word {
		if r == '-' && isAlnum(prev) {
			next, _ := utf8.DecodeRuneInString(word[i+1:])
			if isAlnum(next) {
				splits = append(splits, Split{Head: word[:i+1], Tail: word[i+1:]})
			}
		}
		prev = r
	}
	return splits
}

func isAlnum(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Hyphenator returns the byte offsets where a hyphen may be inserted into a
// word made only of letters. *hyphenation.Standard implements it.
type Hyphenator interface {
	Hyphenate(word string) []int
}

// DictionarySplitter splits words at the points found by a hyphenation
// dictionary and after existing hyphens.
type DictionarySplitter struct {
	Dict Hyphenator
}

// Split implements WordSplitter.
func (d DictionarySplitter) Split(word string) []Split {
	start := strings.IndexFunc(word, unicode.IsLetter)
	if start < 0 {
		return nil
	}
	end := strings.LastIndexFunc(word, unicode.IsLetter)
	_, size := utf8.DecodeRuneInString(word[end:])
	core := word[start : end+size]

	var splits []Split
	pos := start
	for _, part := range strings.Split(core, "-") {
		for _, at := range d.Dict.Hyphenate(part) {
			head := word[:pos+at]
			hyphen := "-"
			if strings.HasSuffix(head, "-") {
				hyphen = ""
			}
			splits = append(splits, Split{Head: head, Hyphen: hyphen, Tail: word[pos+at:]})
		}
		pos += len(part) + 1
	}
	splits = append(splits, HyphenSplitter{}.Split(word)...)

	sort.SliceStable(splits, func(i, j int) bool { return len(splits[i].Head) < len(splits[j].Head) })
	deduped := splits[:0]
	for _, s := range splits {
		if len(deduped) > 0 && deduped[len(deduped)-1].Head == s.Head {
			continue
		}
		deduped = append(deduped, s)
	}
	return deduped
}
